package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"roxtor-ops/backup"
)

func exportBackup(c *cli.Context) error {
	_, client, ctrl, err := openController(c.Context, c.App.ErrWriter, false)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	var out io.Writer = c.App.Writer
	if path := c.String("out"); path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	snap := ctrl.Export()
	if c.Bool("blob") {
		blob, err := backup.EncodeBlob(snap)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, blob)
		return err
	}
	if err := backup.Write(out, snap); err != nil {
		return err
	}
	log.WithField("orders", len(snap.Orders)).Info("respaldo exportado")
	return nil
}

func importBackup(c *cli.Context) error {
	data, err := os.ReadFile(c.String("in"))
	if err != nil {
		return err
	}
	var snap backup.Snapshot
	if c.Bool("blob") {
		snap, err = backup.DecodeBlob(string(data))
	} else {
		snap, err = backup.Read(bytes.NewReader(data))
	}
	if err != nil {
		return err
	}

	_, client, ctrl, err := openController(c.Context, c.App.ErrWriter, false)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())
	return ctrl.Import(c.Context, snap)
}
