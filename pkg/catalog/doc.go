// Package catalog holds the input model of codematrix: source-code entities
// (nodes) and the typed relations between them (edges), as produced by an
// external code analyzer.
//
// # JSON Format
//
// A catalog document has a version tag and two required top-level arrays:
//
//	{
//	  "version": "1",
//	  "nodes": [
//	    {"id": "crate::app|class_struct::Store", "type": "class_struct", "name": "Store",
//	     "public": true, "filename": "src/service/store.rs"},
//	    {"id": "crate::app|class_struct::Store|method::get", "type": "method", "name": "get",
//	     "public": true, "filename": "src/service/store.rs"}
//	  ],
//	  "edges": [
//	    {"from": "crate::app|class_struct::Store", "to": "crate::app|class_struct::Store|method::get",
//	     "type": "includes"}
//	  ]
//	}
//
// Optional node fields are filename, start_line, end_line, source_code,
// description and details. The details object is analyzer specific; the
// presence of sub-collections such as "methods" or "functions" drives
// classification in package matrix.
//
// # Identifiers
//
// Node ids are hierarchical: pipe-separated segments, each of the form
// kind::name. The helpers in id.go split them and recognise the class and
// method markers used to infer ownership.
//
// Nodes are read-only once loaded. Nothing in codematrix mutates a [Node]
// after [Read] returns it.
package catalog
