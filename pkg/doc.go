// Package pkg provides the libraries behind cytopush.
//
// # Overview
//
// cytopush publishes one containment subtree of a Cytoscape.js graph to a
// running Cytoscape desktop. The packages divide the work as follows:
//
//  1. [cyjs] - Graph document model, decoding, validation and encoding
//  2. [containment] - The containment filter and its childless policy
//  3. [style] - Visual style documents (built-in, JSON, YAML, TOML)
//  4. [cyrest] - CyREST v1 client, plus [cyrest/cyresttest] for tests
//  5. [pipeline] - The push state machine tying the above together
//  6. [render] - Local Graphviz previews
//
// Supporting packages: [errors] (error codes and validation),
// [observability] (hook registry) and [buildinfo] (version stamping).
//
// # Architecture
//
//	.cyjs file
//	     ↓
//	[cyjs] ImportJSON (decode + validate)
//	     ↓
//	[containment] Filter (target + direct children)
//	     ↓
//	[pipeline] Runner.Push
//	     ↓
//	[cyrest] networks → layout → styles → apply style
//
// # Quick Start
//
//	runner, err := pipeline.New(pipeline.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	res, err := runner.Run(ctx, "model.cyjs")
//	if err != nil {
//	    return err
//	}
//	fmt.Println("network", res.NetworkSUID)
package pkg
