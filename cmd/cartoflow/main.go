// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"

	"github.com/cartoflow/cartoflow/internal/collab"
	"github.com/cartoflow/cartoflow/internal/config"
	"github.com/cartoflow/cartoflow/internal/driver"
	"github.com/cartoflow/cartoflow/internal/inset"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func main() {
	cfgPath := flag.String("config", "", "path to a JSON run configuration (optional; defaults are used otherwise)")
	flag.Parse()

	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	io.PfWhite("\nCartoflow -- density-equalizing cartogram flow engine\n\n")

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.ReadFile(*cfgPath)
		if err != nil {
			chk.Panic("%v", err)
		}
	}

	reader := collab.DefaultScenario()
	divs, targets, err := reader.Read(context.Background())
	if err != nil {
		chk.Panic("cannot read input: %v", err)
	}
	projector := collab.IdentityProjector{}
	divs, err = projector.Project(divs)
	if err != nil {
		chk.Panic("cannot project input: %v", err)
	}

	s, err := inset.Init("main", divs, targets, cfg.Lx, cfg.Ly)
	if err != nil {
		chk.Panic("cannot initialise inset: %v", err)
	}

	res, err := driver.Run(s, cfg)
	if err != nil {
		chk.Panic("integration failed: %v", err)
	}
	if res.Warning != nil {
		io.Pfyel("warning: %v\n", res.Warning)
	}

	renderer := collab.SummaryRenderer{AreaError: res.State.AreaError}
	if err := renderer.Render(res.State.Divs, res.State.Lat.CumProj); err != nil {
		chk.Panic("cannot render output: %v", err)
	}
}
