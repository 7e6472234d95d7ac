package netexref

import (
	"bytes"
	"strings"
	"testing"

	"github.com/transitmodel/core/internal/bag"
	"github.com/transitmodel/core/internal/entity"
	"github.com/transitmodel/core/internal/pipelineconfig"
)

func TestWriteEmitsParticipantAndEntities(t *testing.T) {
	b := bag.New()
	b.Networks.Append(&entity.Network{ID: "N1", Name: "Network One"})
	b.Lines.Append(&entity.Line{ID: "L1", Name: "Line One", NetworkID: "N1", CommercialModeID: "bus"})

	var buf bytes.Buffer
	cfg := pipelineconfig.NetexWriterConfig{ParticipantRef: "acme", CurrentDatetime: "2020-01-01T00:00:00Z"}
	if err := Write(&buf, b, cfg); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := buf.String()
	for _, want := range []string{"acme", "2020-01-01T00:00:00Z", `id="N1"`, `id="L1"`, "Network One", "Line One"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}
