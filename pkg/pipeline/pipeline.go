// Package pipeline publishes a filtered graph document to CyREST.
//
// # Architecture
//
// A push run is a strictly linear state machine:
//
//	idle → network-created → layout-applied → styles-cleared → style-registered → style-applied
//
// Before the first transition the input is reduced with the containment
// filter; an empty result stops the run with NOTHING_TO_RENDER and no
// request is sent. Each transition is one blocking CyREST call whose
// output feeds the next transition. The first failure ends the run with a
// [*StepError]. Nothing is rolled back: a network or style created before
// the failure stays on the server.
//
// # Usage
//
//	cfg := pipeline.DefaultConfig()
//	cfg.Target = "SpecifiedNetworkTopology"
//	runner, err := pipeline.New(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Run(ctx, "immortals_deployment_model.cyjs")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.NetworkSUID)
package pipeline

import (
	"github.com/matzehuels/cytopush/pkg/containment"
	"github.com/matzehuels/cytopush/pkg/cyjs"
	"github.com/matzehuels/cytopush/pkg/cyrest"
	"github.com/matzehuels/cytopush/pkg/errors"
	"github.com/matzehuels/cytopush/pkg/style"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultLayout is the layout algorithm applied to the new network.
	// Other choices include "circular", "force-directed", "grid",
	// "kamada-kawai" and the "allegro-*" family; the server decides.
	DefaultLayout = "hierarchical"

	// DefaultTarget is the name of the containment root for the
	// provisioning model.
	DefaultTarget = "SpecifiedNetworkTopology"
)

// Config is the immutable configuration of a [Runner].
type Config struct {
	// BaseURL is the CyREST API root, e.g. "http://localhost:1234/v1/".
	BaseURL string

	// Layout names the layout algorithm to apply.
	Layout string

	// Target is the name of the node whose children are published.
	Target string

	// Relation is the edge type treated as containment.
	Relation cyjs.Relation

	// Policy handles a target without children.
	Policy containment.Policy

	// Style is registered and applied to the new network.
	Style style.Document
}

// DefaultConfig returns the configuration for a local Cytoscape desktop.
func DefaultConfig() Config {
	return Config{
		BaseURL:  cyrest.BaseURL(cyrest.DefaultHost, cyrest.DefaultPort),
		Layout:   DefaultLayout,
		Target:   DefaultTarget,
		Relation: cyjs.RelContainedIn,
		Policy:   containment.PolicyEmptyIfChildless,
		Style:    style.Builtin(),
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if err := errors.ValidateBaseURL(c.BaseURL); err != nil {
		return err
	}
	if err := errors.ValidateLayoutName(c.Layout); err != nil {
		return err
	}
	if err := errors.ValidateNodeName(c.Target); err != nil {
		return err
	}
	if c.Relation == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "containment relation cannot be empty")
	}
	return c.Style.Validate()
}

// Filter reduces doc to the configured target and its children. An empty
// result is returned together with a NOTHING_TO_RENDER error; a target that
// does not exist additionally carries NODE_NOT_FOUND.
func (c Config) Filter(doc *cyjs.Document) (containment.Result, error) {
	res := containment.Filter(doc, c.Target, containment.Options{Relation: c.Relation, Policy: c.Policy})
	switch {
	case !res.Empty():
		return res, nil
	case res.Reason == containment.ReasonNotFound:
		return res, errors.Wrap(errors.ErrCodeNothingToRender,
			errors.New(errors.ErrCodeNodeNotFound, "no node named %q", c.Target),
			"nothing to render")
	default:
		return res, errors.New(errors.ErrCodeNothingToRender,
			"nothing to render: %q has no %s children", c.Target, c.Relation)
	}
}
