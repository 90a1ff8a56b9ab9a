// Package core defines the shared result types used by every stage of
// the validator: finding severities, QA issues, input categories and
// the unified model presentation tree.
//
// Keeping these in one leaf package avoids import cycles between the
// control-file resolver, the input scanner, the run-log extractors and
// the QA rule engine, all of which produce or consume them.
package core
