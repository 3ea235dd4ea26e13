package service

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"eve2cml/internal/cml"
	"eve2cml/internal/codec"
	"eve2cml/internal/loader"
	"eve2cml/internal/logging"
	"eve2cml/internal/mapper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*ConversionService, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := logging.New(&buf, "info", false)
	table, err := mapper.Default(logger)
	require.NoError(t, err)
	return NewConversionService(table, logger), &buf
}

func convertFixture(t *testing.T, svc *ConversionService, name string) *cml.Document {
	t.Helper()
	sources, err := loader.Load(filepath.Join("testdata", name), logging.Discard())
	require.NoError(t, err)
	require.Len(t, sources, 1)

	results := svc.ConvertAll(sources)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	return results[0].Document
}

func TestConvertFixtures(t *testing.T) {
	tests := []struct {
		file        string
		nodes       int
		links       int
		annotations int
	}{
		{"hub.unl", 4, 3, 1},
		{"nat.unl", 4, 2, 0},
		{"pnet.unl", 4, 3, 0},
		{"p2p.unl", 2, 1, 4},
		{"plain.unl", 2, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			svc, _ := newService(t)
			doc := convertFixture(t, svc, tt.file)

			assert.Len(t, doc.Nodes, tt.nodes)
			assert.Len(t, doc.Links, tt.links)
			assert.Len(t, doc.Annotations, tt.annotations)
			assert.Equal(t, cml.SchemaVersion, doc.Lab.Version)
		})
	}
}

func TestConvertHub(t *testing.T) {
	svc, _ := newService(t)
	doc := convertFixture(t, svc, "hub.unl")

	sw := doc.Nodes[3]
	assert.Equal(t, "n4", sw.ID)
	assert.Equal(t, "ums-bridge-LAN", sw.Label)
	assert.Equal(t, "unmanaged_switch", sw.NodeDefinition)
	assert.Equal(t, 300, sw.X)
	assert.Equal(t, 150, sw.Y)
	require.Len(t, sw.Interfaces, 8)
	assert.Equal(t, "port7", sw.Interfaces[7].Label)

	for i, link := range doc.Links {
		assert.Equal(t, cml.LinkID(i), link.ID)
		assert.Equal(t, "n4", link.N1)
		assert.Equal(t, cml.InterfaceID(i), link.I1)
		assert.Equal(t, cml.NodeID(i+1), link.N2)
		assert.Equal(t, "i0", link.I2)
	}
	assert.Equal(t, "LAN-2", doc.Links[2].Label)

	pc := doc.Nodes[0]
	assert.Equal(t, "desktop", pc.NodeDefinition)
	assert.Equal(t, []string{"eth0"}, interfaceLabels(pc))
}

func TestConvertNAT(t *testing.T) {
	svc, buf := newService(t)
	doc := convertFixture(t, svc, "nat.unl")

	r1 := doc.Nodes[0]
	assert.Equal(t, "iosv", r1.NodeDefinition)
	assert.Nil(t, r1.CPUs)
	assert.Nil(t, r1.RAM)
	assert.Equal(t, "hostname R1\n!\ninterface GigabitEthernet0/0\n ip address dhcp\n", r1.Configuration)
	assert.Equal(t,
		[]string{"GigabitEthernet0/0", "GigabitEthernet0/1", "GigabitEthernet0/2", "GigabitEthernet0/3"},
		interfaceLabels(r1))

	web := doc.Nodes[2]
	assert.Equal(t, "ubuntu", web.NodeDefinition)
	require.NotNil(t, web.CPUs)
	assert.Equal(t, 2, *web.CPUs)
	require.NotNil(t, web.RAM)
	assert.Equal(t, 2048, *web.RAM)
	require.NotNil(t, web.CPULimit)
	assert.Equal(t, 75, *web.CPULimit)
	assert.Equal(t, []string{"ens2", "ens3"}, interfaceLabels(web))

	ext := doc.Nodes[3]
	assert.Equal(t, "n4", ext.ID)
	assert.Equal(t, "ext-nat0-Internet", ext.Label)
	assert.Equal(t, "external_connector", ext.NodeDefinition)
	assert.Equal(t, "nat", ext.Configuration)
	assert.Equal(t, 50, ext.Y)

	assert.Equal(t, cml.Link{
		ID: "l0", N1: "n1", I1: "i0", N2: "n4", I2: "i0",
		Label: "Internet-0", Conditioning: map[string]any{},
	}, doc.Links[0])
	assert.Equal(t, "Net-R1PC1-1", doc.Links[1].Label)

	assert.Contains(t, buf.String(), "can't deal with bridge")
}

func TestConvertPNet(t *testing.T) {
	svc, _ := newService(t)
	doc := convertFixture(t, svc, "pnet.unl")

	ext := doc.Nodes[2]
	assert.Equal(t, "ext-pnet0-Cloud0", ext.Label)
	assert.Equal(t, "bridge0", ext.Configuration)
	assert.Equal(t, 150-64, ext.Y)

	sw := doc.Nodes[3]
	assert.Equal(t, "ums-pnet0-Cloud0", sw.Label)

	last := doc.Links[2]
	assert.Equal(t, "n4", last.N1)
	assert.Equal(t, "i2", last.I1)
	assert.Equal(t, "n3", last.N2)
	assert.Equal(t, "i0", last.I2)
}

func TestConvertIOLPointToPoint(t *testing.T) {
	svc, _ := newService(t)
	doc := convertFixture(t, svc, "p2p.unl")

	assert.Equal(t, cml.Link{
		ID: "l0", N1: "n1", I1: "i1", N2: "n2", I2: "i4",
		Label: "Net-R1R2-0", Conditioning: map[string]any{},
	}, doc.Links[0])

	r1, r2 := doc.Nodes[0], doc.Nodes[1]
	assert.Equal(t, "iol-xe", r1.NodeDefinition)
	assert.Nil(t, r1.RAM)
	assert.Equal(t, []string{"Ethernet0/0", "Ethernet0/1"}, interfaceLabels(r1))
	require.Len(t, r2.Interfaces, 5)
	assert.Equal(t, "Ethernet1/0", r2.Interfaces[4].Label)

	assert.Equal(t, "p2p", doc.Lab.Title)
	assert.Equal(t, "Imported from testdata/p2p.unl via eve2cml converter", doc.Lab.Description)
	assert.Equal(t,
		"## Description: \n\nTwo routers\n\n## Task: \n\nConfigure OSPF\n\nImported from testdata/p2p.unl via `eve2cml` converter",
		doc.Lab.Notes)

	types := make([]string, 0, len(doc.Annotations))
	for _, a := range doc.Annotations {
		types = append(types, a.AnnotationType())
	}
	assert.Equal(t, []string{"text", "rectangle", "ellipse", "text"}, types)

	ellipse := doc.Annotations[2].(cml.ShapeAnnotation)
	assert.Equal(t, "#7F8C8DFF", ellipse.Color)
	assert.Equal(t, 30, ellipse.Rotation)
	assert.Equal(t, "line one\nline two", doc.Annotations[3].(cml.TextAnnotation).TextContent)
}

func TestConvertIsRepeatable(t *testing.T) {
	svc, _ := newService(t)
	sources, err := loader.Load(filepath.Join("testdata", "pnet.unl"), logging.Discard())
	require.NoError(t, err)

	lab, err := svc.Import(sources[0])
	require.NoError(t, err)

	render := func() string {
		doc, err := svc.Convert(lab)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, codec.NewYAMLCodec().Export(doc, &buf))
		return buf.String()
	}

	first := render()
	assert.Equal(t, first, render())
	assert.Len(t, lab.Topology.Nodes, 2, "synthetic nodes stay out of the source lab")
}

func TestConvertPlainPointToPoint(t *testing.T) {
	svc, _ := newService(t)
	doc := convertFixture(t, svc, "plain.unl")

	require.Len(t, doc.Nodes, 2)
	require.Len(t, doc.Links, 1)
	assert.NotNil(t, doc.Annotations)
	assert.Empty(t, doc.Annotations)

	link := doc.Links[0]
	assert.Equal(t, "l0", link.ID)
	assert.Equal(t, "n1", link.N1)
	assert.Equal(t, "i0", link.I1)
	assert.Equal(t, "n2", link.N2)
	assert.Equal(t, "i0", link.I2)
	assert.Equal(t, "Net-R1R2-0", link.Label)

	var first, second bytes.Buffer
	require.NoError(t, codec.NewYAMLCodec().Export(doc, &first))
	require.NoError(t, codec.NewYAMLCodec().Export(convertFixture(t, svc, "plain.unl"), &second))
	assert.Equal(t, first.String(), second.String())
	assert.Contains(t, first.String(), "annotations: []")
}

func TestConvertDuplicateLabels(t *testing.T) {
	svc, buf := newService(t)
	src := loader.Source{Name: "dup.unl", Data: []byte(`<lab name="dup"><topology><nodes>
<node id="1" name="R" type="vpcs" template="vpcs"/>
<node id="2" name="R" type="vpcs" template="vpcs"/>
</nodes></topology></lab>`)}

	results := svc.ConvertAll([]loader.Source{src})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Contains(t, buf.String(), "node labels are not unique")
}

func TestConvertAllKeepsGoing(t *testing.T) {
	svc, buf := newService(t)
	hub, err := os.ReadFile(filepath.Join("testdata", "hub.unl"))
	require.NoError(t, err)

	sources := []loader.Source{
		{Name: "broken.unl", Data: []byte("<lab><topology><nodes><node id=\"x\"/></nodes></topology></lab>")},
		{Name: "dupslot.unl", Data: []byte(`<lab><topology><nodes><node id="1" type="vpcs" template="vpcs">
<interface id="0" network_id="1"/><interface id="0" network_id="2"/></node></nodes></topology></lab>`)},
		{Name: "hub.unl", Data: hub},
	}

	results := svc.ConvertAll(sources)
	require.Len(t, results, 3)

	assert.True(t, results[0].Failed())
	assert.Nil(t, results[0].Lab)
	assert.True(t, results[1].Failed())
	assert.ErrorIs(t, results[1].Err, cml.ErrDuplicateSlot)
	assert.False(t, results[2].Failed())
	assert.Len(t, results[2].Document.Nodes, 4)

	assert.Contains(t, buf.String(), "can't parse lab")
	assert.Contains(t, buf.String(), "can't convert lab")
}

func TestConvertArchive(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "labs.zip")

	f, err := os.Create(p)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, name := range []string{"p2p.unl", "hub.unl"} {
		data, err := os.ReadFile(filepath.Join("testdata", name))
		require.NoError(t, err)
		w, err := zw.Create("course/" + name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	svc, _ := newService(t)
	sources, err := loader.Load(p, logging.Discard())
	require.NoError(t, err)

	results := svc.ConvertAll(sources)
	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err)
	}
	byName := map[string]*cml.Document{}
	for _, r := range results {
		byName[r.Source.Name] = r.Document
	}
	require.Contains(t, byName, "course--p2p.unl")
	assert.Len(t, byName["course--p2p.unl"].Annotations, 4)
	assert.Equal(t, "Imported from course--hub.unl via eve2cml converter", byName["course--hub.unl"].Lab.Description)
}

func interfaceLabels(node cml.Node) []string {
	out := make([]string, 0, len(node.Interfaces))
	for _, iface := range node.Interfaces {
		out = append(out, iface.Label)
	}
	return out
}
