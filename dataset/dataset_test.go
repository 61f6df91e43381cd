package dataset_test

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/waterflow/core"
	"github.com/katalvlaran/waterflow/dataset"
	"github.com/katalvlaran/waterflow/flow"
)

func TestLoadTestdata(t *testing.T) {
	g, err := dataset.Load(os.DirFS("testdata"), dataset.DefaultFiles())
	require.NoError(t, err)

	require.Len(t, g.NodesByRole(core.RoleSource), 2)
	require.Len(t, g.NodesByRole(core.RoleTransfer), 3)
	require.Len(t, g.NodesByRole(core.RoleSink), 3)
	require.Equal(t, 9, g.EdgeCount(), "one bidirectional pipe adds two edges")

	r1 := g.FindNode("R_1")
	require.Equal(t, "Ribeira da Gaia", r1.Source.Name)
	require.Equal(t, "Lisboa", r1.Source.Municipality)
	require.InDelta(t, 300, r1.Source.MaxOutput, 1e-9)

	c1 := g.FindNode("C_1")
	require.Equal(t, "Lisboa", c1.Sink.City)
	require.Equal(t, 545923, c1.Sink.Population)
	require.Equal(t, 385606, g.FindNode("C_3").Sink.Population)

	pipe := g.FindEdge("PS_2", "PS_1")
	require.NotNil(t, pipe)
	require.True(t, pipe.Paired())

	n, err := flow.NewNetwork(g)
	require.NoError(t, err)
	v, err := n.MaxFlow(context.Background(), true)
	require.NoError(t, err)
	require.InDelta(t, 400, v, 1e-9)
}

func mapFS(reservoirs, stations, cities, pipes string) fstest.MapFS {
	return fstest.MapFS{
		"Reservoir.csv": {Data: []byte(reservoirs)},
		"Stations.csv":  {Data: []byte(stations)},
		"Cities.csv":    {Data: []byte(cities)},
		"Pipes.csv":     {Data: []byte(pipes)},
	}
}

const (
	reservoirHeader = "Reservoir,Municipality,Id,Code,Maximum Delivery (m3/sec)\n"
	stationHeader   = "Id,Code\n"
	cityHeader      = "City,Id,Code,Demand,Population\n"
	pipeHeader      = "Service_Point_A,Service_Point_B,Capacity,Direction\n"
)

func TestLoadErrors(t *testing.T) {
	okReservoir := reservoirHeader + "Alto,Porto,1,R_1,10\n"
	okCity := cityHeader + "Porto,1,C_1,5,1000\n"

	tests := []struct {
		name string
		fsys fstest.MapFS
		want error
		line string
	}{
		{
			name: "short row",
			fsys: mapFS(reservoirHeader+"Alto,Porto,1\n", stationHeader, cityHeader, pipeHeader),
			want: dataset.ErrMalformedRecord,
			line: "Reservoir.csv:2",
		},
		{
			name: "bad number",
			fsys: mapFS(okReservoir, stationHeader, cityHeader+"Porto,1,C_1,lots,1000\n", pipeHeader),
			want: dataset.ErrMalformedRecord,
			line: "Cities.csv:2",
		},
		{
			name: "negative capacity",
			fsys: mapFS(okReservoir, stationHeader, okCity, pipeHeader+"R_1,C_1,-3,1\n"),
			want: dataset.ErrMalformedRecord,
			line: "Pipes.csv:2",
		},
		{
			name: "unknown code",
			fsys: mapFS(okReservoir, stationHeader, okCity, pipeHeader+"R_1,PS_9,3,1\n"),
			want: core.ErrNodeNotFound,
			line: "Pipes.csv:2",
		},
		{
			name: "duplicate code",
			fsys: mapFS(okReservoir, stationHeader+"1,R_1\n", okCity, pipeHeader),
			want: core.ErrDuplicateKey,
			line: "Stations.csv:2",
		},
		{
			name: "empty file",
			fsys: mapFS("", stationHeader, cityHeader, pipeHeader),
			want: dataset.ErrMalformedRecord,
			line: "Reservoir.csv",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := dataset.Load(tc.fsys, dataset.DefaultFiles())
			require.ErrorIs(t, err, tc.want)
			require.ErrorContains(t, err, tc.line)
		})
	}

	_, err := dataset.Load(fstest.MapFS{}, dataset.DefaultFiles())
	require.Error(t, err)
}

func TestLoadTolerance(t *testing.T) {
	fsys := mapFS(
		reservoirHeader+"Alto, Porto, 1, R_1, 10,,\n\n",
		stationHeader+",\n1,PS_1\n",
		cityHeader+"Porto,1,C_1,5,\"1,200,300\"\n",
		pipeHeader+"R_1,PS_1,8,1\nPS_1,C_1,8,0\n",
	)
	g, err := dataset.Load(fsys, dataset.DefaultFiles())
	require.NoError(t, err)
	require.Equal(t, 3, g.NodeCount())
	require.Equal(t, 3, g.EdgeCount())
	require.Equal(t, "Porto", g.FindNode("R_1").Source.Municipality)
	require.Equal(t, 1200300, g.FindNode("C_1").Sink.Population)
}
