package codec

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"eve2cml/internal/domain"
)

// UNLCodec reads EVE-NG .unl lab files
type UNLCodec struct {
	logger *slog.Logger
}

// NewUNLCodec creates a new UNL codec
func NewUNLCodec(logger *slog.Logger) *UNLCodec {
	return &UNLCodec{logger: logger}
}

// Format returns the codec format identifier
func (c *UNLCodec) Format() string {
	return "unl"
}

type unlLab struct {
	XMLName       xml.Name     `xml:"lab"`
	Name          string       `xml:"name,attr"`
	Version       string       `xml:"version,attr"`
	ScriptTimeout string       `xml:"scripttimeout,attr"`
	Countdown     string       `xml:"countdown,attr"`
	Lock          string       `xml:"lock,attr"`
	SAT           string       `xml:"sat,attr"`
	Description   string       `xml:"description"`
	Body          string       `xml:"body"`
	Nodes         []unlNode    `xml:"topology>nodes>node"`
	Networks      []unlNetwork `xml:"topology>networks>network"`
	Objects       []unlObjects `xml:"objects"`
}

type unlNode struct {
	ID         string         `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	Type       string         `xml:"type,attr"`
	Template   string         `xml:"template,attr"`
	Image      string         `xml:"image,attr"`
	Console    string         `xml:"console,attr"`
	CPU        string         `xml:"cpu,attr"`
	CPULimit   string         `xml:"cpulimit,attr"`
	RAM        string         `xml:"ram,attr"`
	Ethernet   string         `xml:"ethernet,attr"`
	UUID       string         `xml:"uuid,attr"`
	Icon       string         `xml:"icon,attr"`
	Config     string         `xml:"config,attr"`
	Left       string         `xml:"left,attr"`
	Top        string         `xml:"top,attr"`
	Interfaces []unlInterface `xml:"interface"`
}

type unlInterface struct {
	ID        string `xml:"id,attr"`
	Name      string `xml:"name,attr"`
	Type      string `xml:"type,attr"`
	NetworkID string `xml:"network_id,attr"`
}

type unlNetwork struct {
	ID   string `xml:"id,attr"`
	Type string `xml:"type,attr"`
	Name string `xml:"name,attr"`
	Left string `xml:"left,attr"`
	Top  string `xml:"top,attr"`
}

type unlObjects struct {
	Tasks       []unlTask       `xml:"tasks>task"`
	Configs     []unlConfig     `xml:"configs>config"`
	ConfigSets  []unlConfigSet  `xml:"configsets>configset"`
	TextObjects []unlTextObject `xml:"textobjects>textobject"`
}

type unlTask struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
	Data string `xml:"data"`
}

type unlConfig struct {
	ID   string `xml:"id,attr"`
	Data string `xml:",chardata"`
}

type unlConfigSet struct {
	ID      string      `xml:"id,attr"`
	Name    string      `xml:"name,attr"`
	Configs []unlConfig `xml:"config"`
}

type unlTextObject struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
	Data string `xml:"data"`
}

// Parse reads one lab document. Malformed numeric attributes fail the whole
// document.
func (c *UNLCodec) Parse(r io.Reader, name string) (*domain.Lab, error) {
	var ul unlLab
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&ul); err != nil {
		return nil, fmt.Errorf("failed to parse UNL: %w", err)
	}

	lab := domain.NewLab(ul.Name, name)
	lab.Version = ul.Version
	lab.Description = notes(ul.Description, ul.Body, name)

	p := attrParser{}
	lab.ScriptTimeout = p.int("lab", "scripttimeout", ul.ScriptTimeout)
	lab.Countdown = p.int("lab", "countdown", ul.Countdown)
	lab.Lock = p.int("lab", "lock", ul.Lock) != 0
	lab.SAT = p.int("lab", "sat", ul.SAT)

	for _, un := range ul.Nodes {
		lab.Topology.AddNode(p.node(un))
	}
	for _, nw := range ul.Networks {
		network := domain.NewNetwork(p.int("network", "id", nw.ID), nw.Type, nw.Name,
			domain.NewPosition(p.coord("network", "left", nw.Left), p.coord("network", "top", nw.Top)))
		if network.ID == 0 {
			// network_id 0 marks an unattached interface
			c.logger.Warn("network without id, skipping", "file", name, "network", nw.Name, "type", nw.Type)
			continue
		}
		lab.Topology.AddNetwork(network)
	}
	if p.err != nil {
		return nil, p.err
	}

	if len(ul.Objects) > 1 {
		c.logger.Warn("more than one objects section, using the first", "file", name, "count", len(ul.Objects))
	}
	if len(ul.Objects) > 0 {
		objects, err := c.objects(ul.Objects[0])
		if err != nil {
			return nil, err
		}
		lab.Objects = objects
	}

	c.logger.Info("parsed lab", "file", name, "nodes", len(lab.Topology.Nodes), "networks", len(lab.Topology.Networks))
	return lab, nil
}

func (c *UNLCodec) objects(uo unlObjects) (*domain.Objects, error) {
	objects := domain.NewObjects()
	p := attrParser{}

	for _, t := range uo.Tasks {
		objects.Tasks = append(objects.Tasks, domain.Task{
			ID:   t.ID,
			Name: t.Name,
			Type: t.Type,
			Data: strings.TrimSpace(t.Data),
		})
	}
	for _, cfg := range uo.Configs {
		objects.Configs = append(objects.Configs, domain.Config{
			ID:   p.int("config", "id", cfg.ID),
			Data: DecodePayload(cfg.Data, c.logger),
		})
	}
	for _, set := range uo.ConfigSets {
		cs := domain.ConfigSet{
			ID:      valueOr(set.ID, "unknown"),
			Name:    valueOr(set.Name, "unknown"),
			Configs: make([]domain.Config, 0, len(set.Configs)),
		}
		for _, cfg := range set.Configs {
			cs.Configs = append(cs.Configs, domain.Config{
				ID:   p.int("config", "id", cfg.ID),
				Data: DecodePayload(cfg.Data, c.logger),
			})
		}
		objects.ConfigSets = append(objects.ConfigSets, cs)
	}
	for _, to := range uo.TextObjects {
		objects.TextObjects = append(objects.TextObjects, domain.TextObject{
			ID:   to.ID,
			Name: to.Name,
			Type: to.Type,
			Data: DecodePayload(to.Data, c.logger),
		})
	}

	if p.err != nil {
		return nil, p.err
	}
	return objects, nil
}

// notes builds the lab notes from the source description and task body
func notes(description, body, filename string) string {
	var b strings.Builder
	if description != "" {
		fmt.Fprintf(&b, "## Description: \n\n%s\n\n", description)
	}
	if body != "" {
		fmt.Fprintf(&b, "## Task: \n\n%s\n\n", body)
	}
	fmt.Fprintf(&b, "Imported from %s via `eve2cml` converter", filename)
	return b.String()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// attrParser converts string attributes and keeps the first failure
var errNegativeID = errors.New("negative id")

type attrParser struct {
	err error
}

func (p *attrParser) node(un unlNode) *domain.Node {
	node := domain.NewNode(p.int("node", "id", un.ID), un.Name, un.Type, un.Template)
	node.Image = un.Image
	node.Console = un.Console
	node.Icon = un.Icon
	node.UUID = un.UUID
	node.CPU = p.int("node", "cpu", un.CPU)
	node.CPULimit = p.int("node", "cpulimit", un.CPULimit)
	node.RAM = p.int("node", "ram", un.RAM)
	if un.Ethernet != "" {
		node.Ethernet = p.int("node", "ethernet", un.Ethernet)
	}
	node.ConfigRef = un.Config
	node.Position = domain.NewPosition(p.coord("node", "left", un.Left), p.coord("node", "top", un.Top))

	for _, ui := range un.Interfaces {
		node.AddInterface(p.slot("interface", "id", ui.ID), ui.Name, ui.Type, p.int("interface", "network_id", ui.NetworkID))
	}
	return node
}

// int parses an integer attribute. Absent attributes are zero.
func (p *attrParser) int(element, attr, value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(element, attr, value, err)
		return 0
	}
	return n
}

// slot parses an interface id, which numbers a port and can't be negative
func (p *attrParser) slot(element, attr, value string) int {
	n := p.int(element, attr, value)
	if n < 0 {
		p.fail(element, attr, value, errNegativeID)
		return 0
	}
	return n
}

// coord parses a canvas coordinate. Older exports write fractional values.
func (p *attrParser) coord(element, attr, value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.fail(element, attr, value, err)
		return 0
	}
	return int(f)
}

func (p *attrParser) fail(element, attr, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s attribute %s=%q: %w", element, attr, value, err)
	}
}
