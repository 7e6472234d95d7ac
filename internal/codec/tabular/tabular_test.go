package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/transitmodel/core/internal/bag"
	"github.com/transitmodel/core/internal/pipelineconfig"
)

func TestReadNetworksAppendsRows(t *testing.T) {
	b := bag.New()
	csv := "network_id,network_name,network_timezone\nN1,Network One,Europe/Paris\n"
	if err := ReadNetworks(strings.NewReader(csv), b); err != nil {
		t.Fatalf("ReadNetworks: %v", err)
	}
	n, ok := b.Networks.ByID("N1")
	if !ok {
		t.Fatal("N1 not appended")
	}
	if n.Name != "Network One" || n.Timezone != "Europe/Paris" {
		t.Fatalf("got %+v", n)
	}
}

func TestReadStopPointsParsesCoordinatesAndParent(t *testing.T) {
	b := bag.New()
	csv := "stop_id,stop_name,stop_lat,stop_lon,parent_station\nSP1,Stop One,48.85,2.35,SA1\n"
	if err := ReadStopPoints(strings.NewReader(csv), b, pipelineconfig.ReaderConfig{}); err != nil {
		t.Fatalf("ReadStopPoints: %v", err)
	}
	sp, ok := b.StopPoints.ByID("SP1")
	if !ok {
		t.Fatal("SP1 not appended")
	}
	if sp.StopAreaID != "SA1" || sp.Coord.Lat != 48.85 || sp.Coord.Lon != 2.35 {
		t.Fatalf("got %+v", sp)
	}
}

func TestWriteNetworksRoundTrips(t *testing.T) {
	b := bag.New()
	if err := ReadNetworks(strings.NewReader("network_id,network_name,network_timezone\nN1,Network One,UTC\n"), b); err != nil {
		t.Fatalf("ReadNetworks: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteNetworks(&buf, b); err != nil {
		t.Fatalf("WriteNetworks: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "N1,Network One,UTC") {
		t.Fatalf("output missing expected row:\n%s", got)
	}
}
