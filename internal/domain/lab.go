package domain

import "fmt"

// Lab is one parsed source document
type Lab struct {
	Name          string    `json:"name"`
	Version       string    `json:"version"`
	ScriptTimeout int       `json:"script_timeout"`
	Countdown     int       `json:"countdown"`
	Lock          bool      `json:"lock"`
	SAT           int       `json:"sat"`
	Description   string    `json:"description"`
	Filename      string    `json:"filename"`
	Topology      *Topology `json:"topology"`
	Objects       *Objects  `json:"objects"`
}

// NewLab creates an empty lab for the given source file
func NewLab(name, filename string) *Lab {
	return &Lab{
		Name:     name,
		Filename: filename,
		Topology: NewTopology(),
		Objects:  NewObjects(),
	}
}

func (l *Lab) String() string {
	return fmt.Sprintf("Lab: %s, Version: %s, Script Timeout: %d, Countdown: %d, Lock: %t, SAT: %d",
		l.Name, l.Version, l.ScriptTimeout, l.Countdown, l.Lock, l.SAT)
}
