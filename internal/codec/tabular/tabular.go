// Package tabular is a thin reference codec reading and writing the
// handful of NTFS-style CSV tables needed to exercise the core end to
// end. It is explicitly out of core scope (spec.md section 1); its only
// job is giving cmd/ntfsconv something concrete to read and write.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/transitmodel/core/internal/bag"
	"github.com/transitmodel/core/internal/entity"
	"github.com/transitmodel/core/internal/modelerr"
	"github.com/transitmodel/core/internal/pipelineconfig"
)

// ReadNetworks appends one Network per CSV row (header: network_id,
// network_name,network_timezone) into b.
func ReadNetworks(r io.Reader, b *bag.Bag) error {
	rows, err := readRows(r, "networks.txt")
	if err != nil {
		return err
	}
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		if _, err := b.Networks.Append(&entity.Network{ID: row[0], Name: row[1], Timezone: row[2]}); err != nil {
			return err
		}
	}
	return nil
}

// ReadStopAreas appends one StopArea per CSV row (header: stop_id,
// stop_name,stop_lat,stop_lon).
func ReadStopAreas(r io.Reader, b *bag.Bag) error {
	rows, err := readRows(r, "stop_areas.txt")
	if err != nil {
		return err
	}
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		lat, _ := strconv.ParseFloat(row[2], 64)
		lon, _ := strconv.ParseFloat(row[3], 64)
		if _, err := b.StopAreas.Append(&entity.StopArea{ID: row[0], Name: row[1], Coord: entity.Coord{Lat: lat, Lon: lon}}); err != nil {
			return err
		}
	}
	return nil
}

// ReadStopPoints appends one StopPoint per CSV row (header: stop_id,
// stop_name,stop_lat,stop_lon,parent_station). cfg is not consulted: ids
// are stored as read, and no prefix (cfg.Prefix included) is applied.
func ReadStopPoints(r io.Reader, b *bag.Bag, cfg pipelineconfig.ReaderConfig) error {
	rows, err := readRows(r, "stops.txt")
	if err != nil {
		return err
	}
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		lat, _ := strconv.ParseFloat(row[2], 64)
		lon, _ := strconv.ParseFloat(row[3], 64)
		if _, err := b.StopPoints.Append(&entity.StopPoint{
			ID:         row[0],
			Name:       row[1],
			Coord:      entity.Coord{Lat: lat, Lon: lon},
			StopAreaID: row[4],
		}); err != nil {
			return err
		}
	}
	return nil
}

// ReadLines appends one Line per CSV row (header: line_id,line_name,
// line_code,network_id,commercial_mode_id).
func ReadLines(r io.Reader, b *bag.Bag) error {
	rows, err := readRows(r, "lines.txt")
	if err != nil {
		return err
	}
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		l := &entity.Line{ID: row[0], Name: row[1], NetworkID: row[3], CommercialModeID: row[4]}
		if row[2] != "" {
			code := row[2]
			l.Code = &code
		}
		if _, err := b.Lines.Append(l); err != nil {
			return err
		}
	}
	return nil
}

// WriteNetworks writes the Networks collection out as networks.txt.
func WriteNetworks(w io.Writer, b *bag.Bag) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"network_id", "network_name", "network_timezone"}); err != nil {
		return &modelerr.IoError{Op: "write networks.txt header", Err: err}
	}
	for _, id := range b.Networks.IDs() {
		n, _ := b.Networks.ByID(id)
		if err := cw.Write([]string{n.ID, n.Name, n.Timezone}); err != nil {
			return &modelerr.IoError{Op: "write networks.txt row", Err: err}
		}
	}
	return nil
}

// WriteLines writes the Lines collection out as lines.txt.
func WriteLines(w io.Writer, b *bag.Bag) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"line_id", "line_name", "line_code", "network_id", "commercial_mode_id"}); err != nil {
		return &modelerr.IoError{Op: "write lines.txt header", Err: err}
	}
	for _, id := range b.Lines.IDs() {
		l, _ := b.Lines.ByID(id)
		code := ""
		if l.Code != nil {
			code = *l.Code
		}
		if err := cw.Write([]string{l.ID, l.Name, code, l.NetworkID, l.CommercialModeID}); err != nil {
			return &modelerr.IoError{Op: "write lines.txt row", Err: err}
		}
	}
	return nil
}

func readRows(r io.Reader, source string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, &modelerr.IoError{Op: fmt.Sprintf("read %s", source), Err: err}
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil // drop header
}
