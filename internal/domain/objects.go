package domain

import "fmt"

// freeStandingConfigRef selects the lab-level configs instead of config sets
const freeStandingConfigRef = "1"

// Config is a decoded startup configuration for one node
type Config struct {
	ID   int    `json:"id"`
	Data string `json:"data"`
}

func (c Config) String() string {
	return fmt.Sprintf("Config ID: %d, Data: %s", c.ID, c.Data)
}

// ConfigSet is a named collection of node configurations
type ConfigSet struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Configs []Config `json:"configs"`
}

// Task is a scheduled lab task. Data stays encoded.
type Task struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
}

func (t Task) String() string {
	return fmt.Sprintf("Task %s, Name: %s, Type: %s", t.ID, t.Name, t.Type)
}

// TextObject is a freeform canvas annotation. Data holds the decoded HTML
// fragment.
type TextObject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
}

func (t TextObject) String() string {
	return fmt.Sprintf("Text ID: %s, Name: %s, Type: %s", t.ID, t.Name, t.Type)
}

// Objects holds the free-standing lab objects
type Objects struct {
	Tasks       []Task       `json:"tasks"`
	Configs     []Config     `json:"configs"`
	ConfigSets  []ConfigSet  `json:"config_sets"`
	TextObjects []TextObject `json:"text_objects"`
}

// NewObjects creates an empty objects collection
func NewObjects() *Objects {
	return &Objects{
		Tasks:       make([]Task, 0),
		Configs:     make([]Config, 0),
		ConfigSets:  make([]ConfigSet, 0),
		TextObjects: make([]TextObject, 0),
	}
}

// ResolveConfig finds the configuration for a node. Ref "1" searches the
// free-standing configs, anything else searches all config sets.
func (o *Objects) ResolveConfig(ref string, nodeID int) (string, bool) {
	if o == nil {
		return "", false
	}
	if ref == freeStandingConfigRef {
		for _, cfg := range o.Configs {
			if cfg.ID == nodeID {
				return cfg.Data, true
			}
		}
		return "", false
	}
	for _, set := range o.ConfigSets {
		for _, cfg := range set.Configs {
			if cfg.ID == nodeID {
				return cfg.Data, true
			}
		}
	}
	return "", false
}
