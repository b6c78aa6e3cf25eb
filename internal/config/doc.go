// Package config defines runtime configuration for quizscan.
//
// Configuration is assembled from CLI flags and an optional .quizscan YAML
// file, validated once up front, and passed through the application by
// dependency injection rather than global state.
package config
