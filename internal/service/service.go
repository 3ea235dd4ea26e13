package service

import (
	"bytes"
	"fmt"
	"log/slog"

	"eve2cml/internal/annotation"
	"eve2cml/internal/cml"
	"eve2cml/internal/codec"
	"eve2cml/internal/domain"
	"eve2cml/internal/loader"
	"eve2cml/internal/mapper"
	"eve2cml/internal/topology"
)

// ConversionService converts labs into CML documents
type ConversionService struct {
	importer    codec.Importer
	nodes       *cml.NodeSerializer
	annotations *annotation.Converter
	logger      *slog.Logger
}

// NewConversionService creates a conversion service using table for device
// mapping
func NewConversionService(table *mapper.Table, logger *slog.Logger) *ConversionService {
	return &ConversionService{
		importer:    codec.NewUNLCodec(logger),
		nodes:       cml.NewNodeSerializer(table, logger),
		annotations: annotation.NewConverter(logger),
		logger:      logger,
	}
}

// Import parses a source document into a lab
func (s *ConversionService) Import(src loader.Source) (*domain.Lab, error) {
	s.logger.Info("parse lab file", "file", src.Name)
	lab, err := s.importer.Parse(bytes.NewReader(src.Data), src.Name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}
	return lab, nil
}

// Convert produces the CML document for a lab. The lab is not modified, so
// converting it again yields the same document.
func (s *ConversionService) Convert(lab *domain.Lab) (*cml.Document, error) {
	topo := lab.Topology.Clone()
	links := topology.New(topo, s.logger).Run()

	doc := &cml.Document{
		Lab: cml.LabInfo{
			Description: fmt.Sprintf("Imported from %s via eve2cml converter", lab.Filename),
			Notes:       lab.Description,
			Title:       lab.Name,
			Version:     cml.SchemaVersion,
		},
		Nodes:       make([]cml.Node, 0, len(topo.Nodes)),
		Links:       cml.ConvertLinks(links),
		Annotations: s.annotations.ConvertAll(lab.Objects.TextObjects),
	}

	for _, node := range topo.Nodes {
		out, err := s.nodes.Serialize(node, lab.Objects)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", lab.Filename, err)
		}
		doc.Nodes = append(doc.Nodes, out)
	}

	if dups := cml.DuplicateLabels(doc.Nodes); len(dups) > 0 {
		s.logger.Warn("node labels are not unique, this can not be imported into CML",
			"file", lab.Filename, "labels", dups)
	}

	s.logger.Info("converted lab", "file", lab.Filename,
		"nodes", len(doc.Nodes), "links", len(doc.Links), "annotations", len(doc.Annotations))
	return doc, nil
}
