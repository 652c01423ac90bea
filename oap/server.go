package main

import (
	"fmt"
	"time"

	"github.com/kelvin-qin/OAP/ext"
	"github.com/kelvin-qin/OAP/protocol"
	"github.com/kelvin-qin/OAP/storage"
	"github.com/kelvin-qin/OAP/util"
)

var demoDataset = DatasetConfig{
	Name: "demo",
	Fields: []FieldConfig{
		{Name: "id", TP: "int"},
		{Name: "name", TP: "text"},
		{Name: "score", TP: "float"},
		{Name: "active", TP: "bool"},
	},
	Rows: [][]string{
		{"1", "alice", "3.5", "true"},
		{"2", "bob", "1.5", "false"},
		{"3", "carol", "4.0", "true"},
		{"4", "dave", "2.25", "false"},
	},
}

func registerDatasets(config *Config) error {
	datasets := config.Datasets
	if *demo {
		datasets = append(datasets, demoDataset)
	}
	for _, datasetConfig := range datasets {
		ds, err := datasetConfig.Build()
		if err != nil {
			return err
		}
		err = storage.GetCatalog().Register(ds)
		if err != nil {
			return err
		}
	}
	return nil
}

func initServer(config *Config) (*protocol.SimpleServer, error) {
	log := util.GetLog("server")
	err := registerDatasets(config)
	if err != nil {
		return nil, err
	}
	if config.ExtManifest != "" {
		err = ext.LoadManifest(config.ExtManifest, ext.Default())
		if err != nil {
			return nil, err
		}
		log.InfoF("loaded extended functions from %s", config.ExtManifest)
	}
	server := protocol.NewServerWithTimeout(config.Port, time.Millisecond*time.Duration(config.ReadTimeout),
		time.Millisecond*time.Duration(config.WriteTimeout), config.UnixSocket)
	err = server.Start()
	if err != nil {
		return nil, err
	}
	fmt.Printf("server listening on localhost:%d\n", config.Port)
	return server, nil
}
