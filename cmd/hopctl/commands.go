package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"station-hopper/internal/metro"
	"station-hopper/internal/models"
	"station-hopper/internal/picker"
	"station-hopper/internal/utils"
)

func (o *rootOptions) loadGraph() (*metro.Graph, error) {
	return metro.LoadGraph(o.datasetPath)
}

func (o *rootOptions) suspendedSet() map[string]bool {
	return utils.Slice.ToSet(o.suspended)
}

func (o *rootOptions) rand() *rand.Rand {
	seed := o.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func requireStation(g *metro.Graph, cd string) (models.Station, error) {
	s, ok := g.Station(cd)
	if !ok {
		return models.Station{}, fmt.Errorf("unknown station: %s", cd)
	}
	return s, nil
}

func newRouteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Print the fewest-transfer route between two stations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := opts.loadGraph()
			if err != nil {
				return err
			}
			from, err := requireStation(g, args[0])
			if err != nil {
				return err
			}
			if _, err := requireStation(g, args[1]); err != nil {
				return err
			}

			route := metro.FindRoute(g, args[0], args[1], opts.suspendedSet())
			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, route)
			}

			fmt.Fprintf(out, "%s (%s)\n", from.Name, from.LineName)
			for _, step := range route {
				marker := "→"
				if step.Action == models.ActionTransfer {
					marker = "⇄"
				}
				fmt.Fprintf(out, "  %s %s (%s)\n", marker, step.Name, step.LineName)
			}
			fmt.Fprintf(out, "rides: %d\n", metro.CountRides(route))
			return nil
		},
	}
}

func newDistancesCmd(opts *rootOptions) *cobra.Command {
	var maxDist int

	cmd := &cobra.Command{
		Use:   "distances <cd>",
		Short: "Print BFS distances (at most one transfer) from a station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := opts.loadGraph()
			if err != nil {
				return err
			}
			if _, err := requireStation(g, args[0]); err != nil {
				return err
			}

			distances := metro.ComputeStationDistances(g, args[0], opts.suspendedSet())
			cds := make([]string, 0, len(distances))
			for _, cd := range g.StationCds() {
				if d, ok := distances[cd]; ok && (maxDist <= 0 || d <= maxDist) {
					cds = append(cds, cd)
				}
			}
			sort.SliceStable(cds, func(i, j int) bool { return distances[cds[i]] < distances[cds[j]] })

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				result := make(map[string]int, len(cds))
				for _, cd := range cds {
					result[cd] = distances[cd]
				}
				return writeJSON(out, result)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DIST\tCODE\tSTATION\tLINE")
			for _, cd := range cds {
				s, _ := g.Station(cd)
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", distances[cd], cd, s.Name, s.LineName)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&maxDist, "max", 0, "Only show stations up to this distance (0 = all)")
	return cmd
}

// walkStep pick 명령의 한 이동
type walkStep struct {
	StationCd string             `json:"stationCd"`
	Name      string             `json:"name"`
	LineName  string             `json:"lineName"`
	Rides     int                `json:"rides"`
	Route     []models.RouteStep `json:"route"`
}

func newPickCmd(opts *rootOptions) *cobra.Command {
	var steps int
	var explain bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Walk one exploration session from the start hub",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := opts.loadGraph()
			if err != nil {
				return err
			}
			p := picker.NewPicker(g, picker.WithStartGroupCd(opts.startGroupCd), picker.WithRand(opts.rand()))
			out := cmd.OutOrStdout()

			walk, err := walkSession(p, steps, opts.suspendedSet(), func(currentCd string, visited map[string]bool, history []models.HistoryEntry) {
				if !explain || opts.jsonOutput {
					return
				}
				for _, c := range p.Explain(currentCd, visited, history, opts.suspendedSet(), nil) {
					fmt.Fprintf(out, "    ? %-12s %-10s %.3f\n", c.Station.Name, c.Station.LineName, c.Weight)
				}
			})
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(out, walk)
			}
			for i, step := range walk {
				if i == 0 {
					fmt.Fprintf(out, "start: %s (%s)\n", step.Name, step.LineName)
					continue
				}
				fmt.Fprintf(out, "%2d. %s (%s) +%d\n", i, step.Name, step.LineName, step.Rides)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 10, "Maximum number of moves")
	cmd.Flags().BoolVar(&explain, "explain", false, "Print candidate weights before each move")
	return cmd
}

// walkSession 출발 허브에서 steps번까지 이동 (더 갈 곳이 없으면 중단)
func walkSession(
	p *picker.Picker,
	steps int,
	suspended map[string]bool,
	beforeMove func(currentCd string, visited map[string]bool, history []models.HistoryEntry),
) ([]walkStep, error) {
	g := p.Graph()
	startCd, err := p.PickStartStation()
	if err != nil {
		return nil, err
	}

	start, _ := g.Station(startCd)
	walk := []walkStep{{StationCd: startCd, Name: start.Name, LineName: start.LineName}}
	visited := map[string]bool{start.StationGCd: true}
	history := []models.HistoryEntry{{StationCd: startCd, StationGCd: start.StationGCd, Name: start.Name, LineName: start.LineName}}

	currentCd := startCd
	for i := 0; i < steps; i++ {
		if beforeMove != nil {
			beforeMove(currentCd, visited, history)
		}
		nextCd, ok := p.PickNextStation(currentCd, visited, history, suspended, nil)
		if !ok {
			break
		}

		next, _ := g.Station(nextCd)
		route := metro.FindRoute(g, currentCd, nextCd, suspended)
		walk = append(walk, walkStep{
			StationCd: nextCd,
			Name:      next.Name,
			LineName:  next.LineName,
			Rides:     metro.CountRides(route),
			Route:     route,
		})
		visited[next.StationGCd] = true
		history = append(history, models.HistoryEntry{StationCd: nextCd, StationGCd: next.StationGCd, Name: next.Name, LineName: next.LineName})
		currentCd = nextCd
	}
	return walk, nil
}
