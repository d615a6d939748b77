// Package jsonmodel implements spec.md §6's JSON serialization: components
// and projects persist as model/connection/source lists, loaded back by
// mapping external (file-local) ids to internal arena handles through five
// lookup tables (models, constant sources, binary-file sources, random
// sources, text-file sources).
package jsonmodel

import (
	"encoding/json"
	"fmt"

	"github.com/vle-forge/irritator-sub004/codec/jsonpp"
	"github.com/vle-forge/irritator-sub004/id"
	"github.com/vle-forge/irritator-sub004/model"
	"github.com/vle-forge/irritator-sub004/sim"
	"github.com/vle-forge/irritator-sub004/simerr"
	"github.com/vle-forge/irritator-sub004/source"
)

// ModelDoc is one model's JSON representation: an externally-assigned
// integer id (local to the document) plus kind and parameters.
type ModelDoc struct {
	ExternalID int             `json:"id"`
	Kind       model.Kind      `json:"kind"`
	Params     json.RawMessage `json:"params,omitempty"`
}

// ConnectionDoc references models by ExternalID, not by internal handle.
type ConnectionDoc struct {
	SrcID   int `json:"src_id"`
	SrcPort int `json:"src_port"`
	DstID   int `json:"dst_id"`
	DstPort int `json:"dst_port"`
}

// SourceDoc is one source's JSON representation, tagged by lookup table.
type SourceDoc struct {
	ExternalID int             `json:"id"`
	Table      string          `json:"table"` // "constant", "binary_file", "text_file", "random"
	Params     json.RawMessage `json:"params,omitempty"`
}

// ObserverDoc attaches an observer to a model by ExternalID.
type ObserverDoc struct {
	ModelID            int     `json:"model_id"`
	RawCapacity        int     `json:"raw_capacity"`
	LinearizedCapacity int     `json:"linearized_capacity"`
	TimeStep           float64 `json:"time_step"`
}

// Document is the full on-disk project format.
type Document struct {
	Models      []ModelDoc      `json:"models"`
	Connections []ConnectionDoc `json:"connections"`
	Sources     []SourceDoc     `json:"sources,omitempty"`
	Observers   []ObserverDoc   `json:"observers,omitempty"`
}

// quantumParams is ModelDoc.Params' shape for QSS integrators.
type quantumParams struct {
	Level int     `json:"level"`
	X0    float64 `json:"x0"`
	DQ    float64 `json:"dq"`
}

// constantSourceParams is SourceDoc.Params' shape for the constant table.
type constantSourceParams struct {
	Table []float64 `json:"table"`
}

// Load decodes doc into sim's builder, returning the external-id -> handle
// lookup table for models (the first of the five spec.md §6 names; the
// other four are folded into one sourceIDs map keyed by table+external id
// here, since Go's generics make a single map adequate where the original
// used four separate tables).
func Load(b *sim.Builder, doc *Document) (modelIDs map[int]id.Handle, sourceIDs map[string]map[int]id.Handle, err error) {
	modelIDs = make(map[int]id.Handle, len(doc.Models))
	sourceIDs = map[string]map[int]id.Handle{
		"constant":    {},
		"binary_file": {},
		"text_file":   {},
		"random":      {},
	}

	for _, sd := range doc.Sources {
		h, err := loadSource(b, sd)
		if err != nil {
			return nil, nil, err
		}
		tbl, ok := sourceIDs[sd.Table]
		if !ok {
			return nil, nil, fmt.Errorf("jsonmodel: %w: unknown source table %q", simerr.ErrFormat, sd.Table)
		}
		tbl[sd.ExternalID] = h
	}

	for _, md := range doc.Models {
		m := model.New(md.Kind)
		if md.Kind == model.KindQSS1Integrator || md.Kind == model.KindQSS2Integrator || md.Kind == model.KindQSS3Integrator {
			var p quantumParams
			if len(md.Params) > 0 {
				if err := json.Unmarshal(md.Params, &p); err != nil {
					return nil, nil, fmt.Errorf("jsonmodel: %w: %v", simerr.ErrFormat, err)
				}
			}
			model.WithQSS(m, model.QSSParams{Level: p.Level, X0: p.X0, DQ: p.DQ})
		}
		h, err := b.AddModel(m)
		if err != nil {
			return nil, nil, err
		}
		modelIDs[md.ExternalID] = h
	}

	for _, cd := range doc.Connections {
		src, ok := modelIDs[cd.SrcID]
		if !ok {
			return nil, nil, fmt.Errorf("jsonmodel: %w: src id %d", simerr.ErrUnknownModel, cd.SrcID)
		}
		dst, ok := modelIDs[cd.DstID]
		if !ok {
			return nil, nil, fmt.Errorf("jsonmodel: %w: dst id %d", simerr.ErrUnknownModel, cd.DstID)
		}
		if err := b.Connect(src, cd.SrcPort, dst, cd.DstPort); err != nil {
			return nil, nil, err
		}
	}

	for _, od := range doc.Observers {
		h, ok := modelIDs[od.ModelID]
		if !ok {
			return nil, nil, fmt.Errorf("jsonmodel: %w: observer model id %d", simerr.ErrUnknownModel, od.ModelID)
		}
		if err := b.Observe(h, od.RawCapacity, od.LinearizedCapacity, od.TimeStep); err != nil {
			return nil, nil, err
		}
	}

	return modelIDs, sourceIDs, nil
}

func loadSource(b *sim.Builder, sd SourceDoc) (id.Handle, error) {
	switch sd.Table {
	case "constant":
		var p constantSourceParams
		if len(sd.Params) > 0 {
			if err := json.Unmarshal(sd.Params, &p); err != nil {
				return 0, fmt.Errorf("jsonmodel: %w: %v", simerr.ErrFormat, err)
			}
		}
		return b.AddSource(source.KindConstant, &source.ConstantSource{Table: p.Table}, len(p.Table))
	default:
		return 0, fmt.Errorf("jsonmodel: %w: source table %q not loadable without an external stream", simerr.ErrFormat, sd.Table)
	}
}

// AppendSample renders one observer sample as a pretty-printed JSON object
// using codec/jsonpp, per spec.md §6's pretty-print mode set.
func AppendSample(dst []byte, mode jsonpp.Mode, t, x, y float64) []byte {
	return jsonpp.AppendObject(dst, mode, []jsonpp.Field{
		{Key: "t", Value: t},
		{Key: "x", Value: x},
		{Key: "y", Value: y},
	})
}
