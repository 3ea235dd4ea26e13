// Package service converts parsed EVE-NG labs into CML topologies.
//
// ConversionService drives the pipeline for one lab: links are
// reconstructed on a copy of the topology, nodes are serialized through the
// type mapping table, and text objects become annotations. The batch driver
// runs the pipeline over many sources and keeps going when one fails.
package service
