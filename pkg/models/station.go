// Package models holds the target and station records the engine operates on.
package models

import "github.com/picogrid/drone-risk-engine/pkg/geo"

// Station is a fixed sensor or interception site
type Station struct {
	ID       string       `yaml:"id" json:"id" koanf:"id"`
	Name     string       `yaml:"name" json:"name" koanf:"name"`
	Position geo.Position `yaml:"position" json:"position" koanf:"position"`
}
