// Command qssimctl is the minimal CLI named in SPEC_FULL §6: load a JSON
// model/connections file, optionally a DOT topology overlay, run the
// simulation for a fixed duration, and write observer samples as NDJSON to
// stdout.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/vle-forge/irritator-sub004/codec/dot"
	"github.com/vle-forge/irritator-sub004/codec/jsonmodel"
	"github.com/vle-forge/irritator-sub004/codec/jsonpp"
	"github.com/vle-forge/irritator-sub004/logging"
	"github.com/vle-forge/irritator-sub004/observe"
	"github.com/vle-forge/irritator-sub004/sim"
)

func main() {
	modelPath := flag.String("model", "", "path to a JSON model/connections document")
	dotPath := flag.String("dot", "", "optional DOT topology overlay (read-only, for diagnostics)")
	duration := flag.Float64("duration", 10, "simulation duration to run")
	t0 := flag.Float64("t0", 0, "simulation start time")
	flag.Parse()

	if err := run(*modelPath, *dotPath, *t0, *duration); err != nil {
		fmt.Fprintln(os.Stderr, "qssimctl:", err)
		os.Exit(1)
	}
}

func run(modelPath, dotPath string, t0, duration float64) error {
	log := logging.New(os.Stderr, zerolog.InfoLevel)

	if modelPath == "" {
		return fmt.Errorf("qssimctl: -model is required")
	}
	f, err := os.Open(modelPath)
	if err != nil {
		return err
	}
	defer f.Close()

	var doc jsonmodel.Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return fmt.Errorf("qssimctl: decoding %s: %w", modelPath, err)
	}

	if dotPath != "" {
		df, err := os.Open(dotPath)
		if err != nil {
			return err
		}
		g, err := dot.Read(df)
		df.Close()
		if err != nil {
			return err
		}
		log.Info().Int("nodes", len(g.Nodes)).Int("edges", len(g.Edges)).Msg("loaded dot overlay")
	}

	s := sim.New(sim.Config{
		MaxModels:    len(doc.Models) + 1,
		MaxObservers: len(doc.Observers) + 1,
		MaxSources:   len(doc.Sources) + 1,
		Log:          &log,
	})
	b := sim.NewBuilder(s)

	modelIDs, _, err := jsonmodel.Load(b, &doc)
	if err != nil {
		return err
	}

	if err := s.Initialize(t0); err != nil {
		return err
	}
	if err := s.RunFor(duration); err != nil {
		return err
	}
	if err := s.Finalize(); err != nil {
		return err
	}

	sink := &observe.NDJSONSink{W: os.Stdout, Pretty: jsonpp.Off}
	for extID, h := range modelIDs {
		m, ok := s.Model(h)
		if !ok || !m.ObsID.Valid() {
			continue
		}
		obs, ok := s.Observers().Get(m.ObsID)
		if !ok {
			continue
		}
		view := obs.Raw.ReadOnly()
		for _, samp := range view.Samples {
			if err := sink.Write(samp.T, samp.X, samp.Y); err != nil {
				return fmt.Errorf("qssimctl: writing model %d sample: %w", extID, err)
			}
		}
	}
	return nil
}
