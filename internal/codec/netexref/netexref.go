// Package netexref is a thin reference codec writing a minimal NeTEx-like
// XML export of Networks and Lines. It is explicitly out of core scope
// (spec.md section 1); its only job is exercising
// pipelineconfig.NetexWriterConfig and giving cmd/ntfsconv a second export
// format.
package netexref

import (
	"encoding/xml"
	"io"

	"github.com/transitmodel/core/internal/bag"
	"github.com/transitmodel/core/internal/modelerr"
	"github.com/transitmodel/core/internal/pipelineconfig"
)

type frame struct {
	XMLName         xml.Name      `xml:"PublicationDelivery"`
	ParticipantRef  string        `xml:"ParticipantRef"`
	CurrentDatetime string        `xml:"PublicationTimestamp"`
	Networks        []xmlNetwork  `xml:"dataObjects>CompositeFrame>Network"`
	Lines           []xmlLine     `xml:"dataObjects>CompositeFrame>lines>Line"`
}

type xmlNetwork struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"Name"`
}

type xmlLine struct {
	ID               string `xml:"id,attr"`
	Name             string `xml:"Name"`
	NetworkRef       string `xml:"RepresentedByGroupRef,attr"`
	CommercialModeID string `xml:"TransportMode"`
}

// Write serializes b's Networks and Lines as a minimal NeTEx
// PublicationDelivery document, stamped with cfg.ParticipantRef and
// cfg.CurrentDatetime.
func Write(w io.Writer, b *bag.Bag, cfg pipelineconfig.NetexWriterConfig) error {
	f := frame{
		ParticipantRef:  cfg.ParticipantRef,
		CurrentDatetime: cfg.CurrentDatetime,
	}
	for _, id := range b.Networks.IDs() {
		n, _ := b.Networks.ByID(id)
		f.Networks = append(f.Networks, xmlNetwork{ID: n.ID, Name: n.Name})
	}
	for _, id := range b.Lines.IDs() {
		l, _ := b.Lines.ByID(id)
		f.Lines = append(f.Lines, xmlLine{ID: l.ID, Name: l.Name, NetworkRef: l.NetworkID, CommercialModeID: l.CommercialModeID})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return &modelerr.IoError{Op: "write netex header", Err: err}
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(f); err != nil {
		return &modelerr.IoError{Op: "encode netex document", Err: err}
	}
	return nil
}
