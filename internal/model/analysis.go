package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Analysis holds the aggregate image statistics published by the listings
// service. Every field is optional.
type Analysis struct {
	TotalImages      OptionalValue `json:"Total Imágenes Procesadas"`
	AverageWeightKB  OptionalValue `json:"Promedio Peso (KB)"`
	AverageDimension OptionalValue `json:"Promedio Dimensiones (px)"`
}

// OptionalValue is a JSON scalar that may be a number, a string, "N/A" or
// null. "N/A", blank strings and null decode as absent.
type OptionalValue struct {
	Valid  bool
	Number *float64
	Text   string
}

func (v *OptionalValue) UnmarshalJSON(data []byte) error {
	*v = OptionalValue{}

	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "N/A") {
			return nil
		}
		v.Valid = true
		v.Text = s
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			v.Number = &f
		}
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	v.Valid = true
	v.Number = &f
	v.Text = strconv.FormatFloat(f, 'f', -1, 64)
	return nil
}

func (v OptionalValue) MarshalJSON() ([]byte, error) {
	switch {
	case !v.Valid:
		return []byte("null"), nil
	case v.Number != nil:
		return json.Marshal(*v.Number)
	default:
		return json.Marshal(v.Text)
	}
}
