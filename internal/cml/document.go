// Package cml defines the CML2 topology document and converts source nodes
// and links into it.
package cml

import "fmt"

// Fixed values of the produced document
const (
	SchemaVersion = "0.1.0"
	InterfaceType = "physical"
)

// Document is a complete CML topology. It always has exactly four top-level
// keys.
type Document struct {
	Lab         LabInfo      `yaml:"lab" json:"lab"`
	Nodes       []Node       `yaml:"nodes" json:"nodes"`
	Links       []Link       `yaml:"links" json:"links"`
	Annotations []Annotation `yaml:"annotations" json:"annotations"`
}

// LabInfo is the lab metadata section
type LabInfo struct {
	Description string `yaml:"description" json:"description"`
	Notes       string `yaml:"notes" json:"notes"`
	Title       string `yaml:"title" json:"title"`
	Version     string `yaml:"version" json:"version"`
}

// Node is one CML node record. Nil resource fields are left out so CML
// falls back to the definition defaults.
type Node struct {
	ID              string      `yaml:"id" json:"id"`
	Label           string      `yaml:"label" json:"label"`
	NodeDefinition  string      `yaml:"node_definition" json:"node_definition"`
	ImageDefinition string      `yaml:"image_definition,omitempty" json:"image_definition,omitempty"`
	X               int         `yaml:"x" json:"x"`
	Y               int         `yaml:"y" json:"y"`
	Configuration   string      `yaml:"configuration" json:"configuration"`
	CPUs            *int        `yaml:"cpus,omitempty" json:"cpus,omitempty"`
	CPULimit        *int        `yaml:"cpu_limit,omitempty" json:"cpu_limit,omitempty"`
	RAM             *int        `yaml:"ram,omitempty" json:"ram,omitempty"`
	BootDiskSize    *int        `yaml:"boot_disk_size" json:"boot_disk_size"`
	DataVolume      *int        `yaml:"data_volume" json:"data_volume"`
	HideLinks       bool        `yaml:"hide_links" json:"hide_links"`
	Tags            []string    `yaml:"tags" json:"tags"`
	Interfaces      []Interface `yaml:"interfaces" json:"interfaces"`
}

// Interface is one interface of a CML node
type Interface struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Slot  int    `yaml:"slot" json:"slot"`
	Type  string `yaml:"type" json:"type"`
}

// Link connects two node interfaces
type Link struct {
	ID           string         `yaml:"id" json:"id"`
	N1           string         `yaml:"n1" json:"n1"`
	I1           string         `yaml:"i1" json:"i1"`
	N2           string         `yaml:"n2" json:"n2"`
	I2           string         `yaml:"i2" json:"i2"`
	Label        string         `yaml:"label" json:"label"`
	Conditioning map[string]any `yaml:"conditioning" json:"conditioning"`
}

// Annotation is a text, rectangle or ellipse record
type Annotation interface {
	AnnotationType() string
}

// NodeID formats a CML node id
func NodeID(id int) string {
	return fmt.Sprintf("n%d", id)
}

// InterfaceID formats a CML interface id
func InterfaceID(slot int) string {
	return fmt.Sprintf("i%d", slot)
}

// LinkID formats a CML link id
func LinkID(id int) string {
	return fmt.Sprintf("l%d", id)
}
