package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kelvin-qin/OAP/protocol"
	"github.com/kelvin-qin/OAP/storage"
)

type FieldConfig struct {
	Name string `yaml:"name"`
	TP   string `yaml:"tp"`
}

type DatasetConfig struct {
	Name   string        `yaml:"name"`
	Fields []FieldConfig `yaml:"fields"`
	Rows   [][]string    `yaml:"rows"`
}

type Config struct {
	Port         int             `yaml:"port"`
	UnixSocket   string          `yaml:"socket"`
	ReadTimeout  int             `yaml:"readTimeout"`
	WriteTimeout int             `yaml:"writeTimeout"`
	LogPath      string          `yaml:"logPath"`
	ExtManifest  string          `yaml:"extManifest"`
	Datasets     []DatasetConfig `yaml:"datasets"`
}

func DefaultConfig() *Config {
	return &Config{
		Port:         protocol.DefaultPort,
		UnixSocket:   protocol.DefaultUnixSocket,
		ReadTimeout:  protocol.DefaultTimeout,
		WriteTimeout: protocol.DefaultTimeout,
		LogPath:      fmt.Sprintf("/tmp/oap-%v.log", time.Now().Unix()),
	}
}

func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}
	return config, nil
}

var fieldTPMap = map[string]storage.FieldTP{
	"int":   storage.Int,
	"float": storage.Float,
	"bool":  storage.Bool,
	"text":  storage.Text,
}

func encodeCell(value string, tp storage.FieldTP) ([]byte, error) {
	switch tp {
	case storage.Int:
		val, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, err
		}
		return storage.EncodeInt(val), nil
	case storage.Float:
		val, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, err
		}
		return storage.EncodeFloat(val), nil
	case storage.Bool:
		val, err := strconv.ParseBool(value)
		if err != nil {
			return nil, err
		}
		return storage.EncodeBool(val), nil
	default:
		return []byte(value), nil
	}
}

// Build turns the declared dataset into a catalog entry.
func (config *DatasetConfig) Build() (*storage.Dataset, error) {
	fields := make([]storage.Field, len(config.Fields))
	for i, f := range config.Fields {
		tp, ok := fieldTPMap[f.TP]
		if !ok {
			return nil, errors.New(fmt.Sprintf("dataset '%s': unknown field type '%s'", config.Name, f.TP))
		}
		fields[i] = storage.Field{Name: f.Name, TP: tp}
	}
	batch := storage.MakeEmptyRecordBatch(fields)
	for _, row := range config.Rows {
		if len(row) != len(fields) {
			return nil, errors.New(fmt.Sprintf("dataset '%s': row size doesn't match fields", config.Name))
		}
		values := make([][]byte, len(row))
		for i, cell := range row {
			value, err := encodeCell(cell, fields[i].TP)
			if err != nil {
				return nil, err
			}
			values[i] = value
		}
		batch.AppendRow(values)
	}
	return &storage.Dataset{Name: config.Name, Schema: batch.Schema(), Data: batch}, nil
}
