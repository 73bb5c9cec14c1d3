package upstream

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"forestreport/models"
)

var errNotArray = errors.New("response is not a JSON array")

// Every object element becomes a record. Attributes that are missing or null
// stay nil on the decoded record, as do numbers that do not parse.

func decodeTrees(body []byte) ([]models.Tree, error) {
	var out []models.Tree
	err := eachRecord(body, func(r gjson.Result) {
		out = append(out, models.Tree{
			Species:      optionalText(r, "especie"),
			Condition:    optionalText(r, "condicion"),
			HealthStatus: optionalText(r, "sanitario"),
			DAP:          optionalNumber(r, "dap"),
			Height:       optionalNumber(r, "altura"),
		})
	})
	return out, err
}

func decodeSamples(body []byte) ([]models.Sample, error) {
	var out []models.Sample
	err := eachRecord(body, func(r gjson.Result) {
		out = append(out, models.Sample{
			Type:      optionalText(r, "tipo"),
			Status:    optionalText(r, "estado"),
			Condition: optionalText(r, "condicion"),
		})
	})
	return out, err
}

func decodeClusters(body []byte) ([]models.Cluster, error) {
	var out []models.Cluster
	err := eachRecord(body, func(r gjson.Result) {
		out = append(out, models.Cluster{Department: optionalText(r, "departamento")})
	})
	return out, err
}

func eachRecord(body []byte, fn func(gjson.Result)) error {
	if !gjson.ValidBytes(body) {
		return errors.New("invalid JSON body")
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return errNotArray
	}
	root.ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			fn(v)
		}
		return true
	})
	return nil
}

func optionalText(r gjson.Result, key string) *string {
	v := r.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	s := v.String()
	return &s
}

// optionalNumber accepts JSON numbers and numeric strings.
func optionalNumber(r gjson.Result, key string) *float64 {
	v := r.Get(key)
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Float()
	case gjson.String:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return nil
		}
		f = n
	default:
		return nil
	}
	return &f
}
