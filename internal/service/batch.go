package service

import (
	"eve2cml/internal/cml"
	"eve2cml/internal/domain"
	"eve2cml/internal/loader"
)

// Result is the outcome for one source document
type Result struct {
	Source   loader.Source
	Lab      *domain.Lab
	Document *cml.Document
	Err      error
}

// Failed reports whether the source could not be converted
func (r Result) Failed() bool {
	return r.Err != nil
}

// ImportAll parses every source. Documents that fail to parse are logged
// and returned with their error.
func (s *ConversionService) ImportAll(sources []loader.Source) []Result {
	results := make([]Result, 0, len(sources))
	for _, src := range sources {
		lab, err := s.Import(src)
		if err != nil {
			s.logger.Error("can't parse lab", "file", src.Name, "error", err)
		}
		results = append(results, Result{Source: src, Lab: lab, Err: err})
	}
	return results
}

// ConvertAll parses and converts every source. A failing document does not
// stop the others.
func (s *ConversionService) ConvertAll(sources []loader.Source) []Result {
	results := s.ImportAll(sources)
	for i := range results {
		r := &results[i]
		if r.Failed() {
			continue
		}
		r.Document, r.Err = s.Convert(r.Lab)
		if r.Err != nil {
			s.logger.Error("can't convert lab", "file", r.Source.Name, "error", r.Err)
		}
	}
	return results
}
