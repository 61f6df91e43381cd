// Package dataset reads a water network from the four CSV files of the
// reservoir/station/city/pipe dataset into a core.Graph.
//
// Every file starts with a header row. Blank rows and trailing empty columns
// are tolerated. City populations may be quoted with thousands separators
// ("1,234,567"). A pipe with Direction 0 is bidirectional, any other value
// is one-way from Service_Point_A to Service_Point_B.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/katalvlaran/waterflow/core"
)

// ErrMalformedRecord is returned, wrapped with file and line, for a row with
// missing or unparsable fields.
var ErrMalformedRecord = errors.New("dataset: malformed record")

// Files names the four CSV files inside the loaded file system.
type Files struct {
	Reservoirs string
	Stations   string
	Cities     string
	Pipes      string
}

// DefaultFiles returns the file names used by the published dataset.
func DefaultFiles() Files {
	return Files{
		Reservoirs: "Reservoir.csv",
		Stations:   "Stations.csv",
		Cities:     "Cities.csv",
		Pipes:      "Pipes.csv",
	}
}

// record is one data row and the line it started on.
type record struct {
	fields []string
	line   int
}

// Load reads files from fsys and builds the network. Nodes are added in
// file order (reservoirs, stations, cities), then pipes.
//
// Returns ErrMalformedRecord for bad rows, core.ErrDuplicateKey for a
// repeated code and core.ErrNodeNotFound for a pipe naming an unknown code,
// each wrapped with file and line.
func Load(fsys fs.FS, files Files) (*core.Graph, error) {
	g := core.NewGraph()
	steps := []struct {
		name   string
		fields int
		apply  func(*core.Graph, []string) error
	}{
		{files.Reservoirs, 5, addReservoir},
		{files.Stations, 2, addStation},
		{files.Cities, 5, addCity},
		{files.Pipes, 4, addPipe},
	}
	for _, st := range steps {
		records, err := readRecords(fsys, st.name)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			if len(r.fields) < st.fields {
				return nil, fmt.Errorf("%s:%d: want %d fields, got %d: %w",
					st.name, r.line, st.fields, len(r.fields), ErrMalformedRecord)
			}
			if err := st.apply(g, r.fields); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", st.name, r.line, err)
			}
		}
	}

	return g, nil
}

// readRecords returns the data rows of name, without the header, with
// surrounding spaces and trailing empty columns removed.
func readRecords(fsys fs.FS, name string) ([]record, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: missing header: %w", name, ErrMalformedRecord)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var out []record
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %v: %w", name, err, ErrMalformedRecord)
		}
		line, _ := r.FieldPos(0)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		for len(fields) > 0 && fields[len(fields)-1] == "" {
			fields = fields[:len(fields)-1]
		}
		if len(fields) == 0 {
			continue
		}
		out = append(out, record{fields: fields, line: line})
	}
}

// Reservoir, Municipality, Id, Code, Maximum Delivery (m3/sec)
func addReservoir(g *core.Graph, f []string) error {
	if _, err := requireInt("Id", f[2]); err != nil {
		return err
	}
	maxOut, err := requireFloat("Maximum Delivery", f[4])
	if err != nil {
		return err
	}
	n := core.NewSource(f[3], maxOut)
	n.Source.Name = f[0]
	n.Source.Municipality = f[1]

	return g.AddNode(n)
}

// Id, Code
func addStation(g *core.Graph, f []string) error {
	if _, err := requireInt("Id", f[0]); err != nil {
		return err
	}

	return g.AddNode(core.NewTransfer(f[1]))
}

// City, Id, Code, Demand, Population
func addCity(g *core.Graph, f []string) error {
	if _, err := requireInt("Id", f[1]); err != nil {
		return err
	}
	demand, err := requireFloat("Demand", f[3])
	if err != nil {
		return err
	}
	population, err := requireInt("Population", strings.ReplaceAll(f[4], ",", ""))
	if err != nil {
		return err
	}
	n := core.NewSink(f[2], demand)
	n.Sink.City = f[0]
	n.Sink.Population = population

	return g.AddNode(n)
}

// Service_Point_A, Service_Point_B, Capacity, Direction
func addPipe(g *core.Graph, f []string) error {
	capacity, err := requireFloat("Capacity", f[2])
	if err != nil {
		return err
	}
	if f[3] == "0" {
		_, _, err = g.AddBidirectionalEdge(f[0], f[1], capacity)
	} else {
		_, err = g.AddEdge(f[0], f[1], capacity)
	}

	return err
}

func requireInt(field, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", field, s, ErrMalformedRecord)
	}

	return v, nil
}

func requireFloat(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s %q: %w", field, s, ErrMalformedRecord)
	}

	return v, nil
}
