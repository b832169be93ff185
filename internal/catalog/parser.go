package catalog

// Package catalog provides catalog.yaml parsing and seeding.

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type CatalogFile struct {
	Shop     ShopConfig      `yaml:"shop"`
	Products []ProductConfig `yaml:"products"`
}

type ShopConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

type ProductConfig struct {
	Name        string   `yaml:"name"`
	Price       int      `yaml:"price"`
	Discount    int      `yaml:"discount"`
	Sizes       []string `yaml:"sizes"`
	Images      []string `yaml:"images"`
	Composition string   `yaml:"composition"`
	Backing     string   `yaml:"backing"`
	PileHeight  string   `yaml:"pile_height"`
	Density     string   `yaml:"density"`
	Origin      string   `yaml:"origin"`
	Description string   `yaml:"description"`
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(content []byte) (*CatalogFile, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &file, nil
}

func (p *Parser) ParseFromString(content string) (*CatalogFile, error) {
	return p.Parse([]byte(content))
}
