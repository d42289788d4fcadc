package utils

import (
	"io"
	"log"
	"os"
)

// Logger 로깅 기능을 제공하는 구조체
type Logger struct {
	debugLogger *log.Logger
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	fatalLogger *log.Logger
	out         io.Writer
	debug       bool
}

// NewLogger 새로운 로거 생성
func NewLogger() *Logger {
	return NewLoggerWithWriters(os.Stdout, os.Stderr)
}

// NewLoggerWithWriters 출력 대상을 지정한 로거 생성 (CLI/테스트용)
func NewLoggerWithWriters(out, errOut io.Writer) *Logger {
	flags := log.Ldate | log.Ltime | log.Lshortfile
	return &Logger{
		debugLogger: log.New(out, "DEBUG: ", flags),
		infoLogger:  log.New(out, "INFO: ", flags),
		warnLogger:  log.New(out, "WARN: ", flags),
		errorLogger: log.New(errOut, "ERROR: ", flags),
		fatalLogger: log.New(errOut, "FATAL: ", flags),
		out:         out,
	}
}

// NewDiscardLogger 아무것도 출력하지 않는 로거
func NewDiscardLogger() *Logger {
	return NewLoggerWithWriters(io.Discard, io.Discard)
}

// SetDebug 디버그 로그 출력 여부 설정
func (l *Logger) SetDebug(enabled bool) {
	l.debug = enabled
}

// Writer 일반 로그 출력 대상 (HTTP 접근 로그 등에서 공유)
func (l *Logger) Writer() io.Writer {
	return l.out
}

// DebugEnabled 디버그 로그 출력 여부
func (l *Logger) DebugEnabled() bool {
	return l.debug
}

// Debugf 포맷된 디버그 로그 출력 (LOG_DEBUG=true 일 때만)
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.debug {
		l.debugLogger.Printf(format, args...)
	}
}

// Info 정보 로그 출력
func (l *Logger) Info(msg string) {
	l.infoLogger.Println(msg)
}

// Infof 포맷된 정보 로그 출력
func (l *Logger) Infof(format string, args ...interface{}) {
	l.infoLogger.Printf(format, args...)
}

// Warn 경고 로그 출력
func (l *Logger) Warn(msg string) {
	l.warnLogger.Println(msg)
}

// Warnf 포맷된 경고 로그 출력
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.warnLogger.Printf(format, args...)
}

// Errorf 포맷된 에러 로그 출력
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.errorLogger.Printf(format, args...)
}

// Fatalf 포맷된 치명적 에러 로그 출력 후 프로그램 종료
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.fatalLogger.Fatalf(format, args...)
}
