package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

func WriteTicksCSV(w io.Writer, ticks []TickRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tickHeader); err != nil {
		return err
	}
	for _, t := range ticks {
		row := []string{
			formatFloat(t.Time),
			strconv.Itoa(t.Step),
			formatFloat(t.Steer),
			formatFloat(t.Throttle),
			strconv.FormatBool(t.Braking),
			formatFloat(t.MotorTorque),
			formatFloat(t.BrakeTorque),
			formatFloat(t.SteerAngle),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteFramesCSV(w io.Writer, frames []FrameRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(frameHeader); err != nil {
		return err
	}
	for _, f := range frames {
		row := []string{
			formatFloat(f.Time),
			formatFloat(f.Dt),
			formatFloat(f.Horizontal),
			formatFloat(f.Vertical),
			strconv.FormatBool(f.Space),
			strconv.FormatBool(f.Up),
			strconv.FormatBool(f.Down),
			formatFloat(f.Speed),
			formatFloat(f.Needle),
			strconv.Itoa(f.Ticks),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// readRows returns the data rows of a CSV with the given header, skipping
// rows of the wrong width.
func readRows(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return [][]string{}, nil
	}
	if len(records[0]) != len(header) {
		return nil, fmt.Errorf("unexpected header %v", records[0])
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			continue
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

type fieldParser struct {
	row []string
	err error
}

func (p *fieldParser) parseFloat(i int) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(p.row[i], 64)
	p.err = err
	return v
}

func (p *fieldParser) parseInt(i int) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(p.row[i])
	p.err = err
	return v
}

func (p *fieldParser) parseBool(i int) bool {
	if p.err != nil {
		return false
	}
	v, err := strconv.ParseBool(p.row[i])
	p.err = err
	return v
}

func ReadTicksCSV(r io.Reader) ([]TickRecord, error) {
	rows, err := readRows(r, tickHeader)
	if err != nil {
		return nil, err
	}
	out := make([]TickRecord, 0, len(rows))
	for _, row := range rows {
		p := fieldParser{row: row}
		rec := TickRecord{
			Time:        p.parseFloat(0),
			Step:        p.parseInt(1),
			Steer:       p.parseFloat(2),
			Throttle:    p.parseFloat(3),
			Braking:     p.parseBool(4),
			MotorTorque: p.parseFloat(5),
			BrakeTorque: p.parseFloat(6),
			SteerAngle:  p.parseFloat(7),
		}
		if p.err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func ReadFramesCSV(r io.Reader) ([]FrameRecord, error) {
	rows, err := readRows(r, frameHeader)
	if err != nil {
		return nil, err
	}
	out := make([]FrameRecord, 0, len(rows))
	for _, row := range rows {
		p := fieldParser{row: row}
		rec := FrameRecord{
			Time:       p.parseFloat(0),
			Dt:         p.parseFloat(1),
			Horizontal: p.parseFloat(2),
			Vertical:   p.parseFloat(3),
			Space:      p.parseBool(4),
			Up:         p.parseBool(5),
			Down:       p.parseBool(6),
			Speed:      p.parseFloat(7),
			Needle:     p.parseFloat(8),
			Ticks:      p.parseInt(9),
		}
		if p.err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
