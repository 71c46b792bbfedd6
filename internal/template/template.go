// Package template assembles declared resources into a CloudFormation template.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	remediate "github.com/cloudassembly/remediate-aws-go"
	"github.com/cloudassembly/remediate-aws-go/internal/serialize"
	"github.com/cloudassembly/remediate-aws-go/nag"
)

// samTypePrefix marks SAM resources, which require the serverless transform.
const samTypePrefix = "AWS::Serverless::"

// Builder collects resource declarations and produces an immutable template.
// Resources are only ever appended; Build does not mutate the builder.
type Builder struct {
	description string
	entries     map[string]*entry
}

type entry struct {
	resource       remediate.Resource
	dependsOn      []string
	deletionPolicy string
	metadata       map[string]any
}

// Option configures a single resource declaration.
type Option func(*entry)

// WithDependsOn declares an explicit creation-order dependency.
func WithDependsOn(names ...string) Option {
	return func(e *entry) {
		e.dependsOn = append(e.dependsOn, names...)
	}
}

// WithDeletionPolicy sets the resource's deletion policy.
func WithDeletionPolicy(policy string) Option {
	return func(e *entry) {
		e.deletionPolicy = policy
	}
}

// WithSuppressions attaches scanner suppression metadata to the resource.
func WithSuppressions(sups ...nag.Suppression) Option {
	return func(e *entry) {
		mergeMetadata(e, nag.Metadata(sups...))
	}
}

// WithMetadata merges arbitrary metadata into the resource declaration.
func WithMetadata(meta map[string]any) Option {
	return func(e *entry) {
		mergeMetadata(e, meta)
	}
}

func mergeMetadata(e *entry, meta map[string]any) {
	if e.metadata == nil {
		e.metadata = make(map[string]any)
	}
	for k, v := range meta {
		e.metadata[k] = v
	}
}

// NewBuilder creates an empty template builder.
func NewBuilder() *Builder {
	return &Builder{
		entries: make(map[string]*entry),
	}
}

// SetDescription sets the template description.
func (b *Builder) SetDescription(desc string) {
	b.description = desc
}

// AddResource declares a resource under the given logical name.
func (b *Builder) AddResource(name string, r remediate.Resource, opts ...Option) error {
	if name == "" {
		return errors.New("resource logical name must not be empty")
	}
	if _, exists := b.entries[name]; exists {
		return fmt.Errorf("duplicate resource logical name: %s", name)
	}

	e := &entry{resource: r}
	for _, opt := range opts {
		opt(e)
	}
	b.entries[name] = e
	return nil
}

// Suppress attaches scanner suppressions to an already declared resource.
func (b *Builder) Suppress(name string, sups ...nag.Suppression) error {
	e, ok := b.entries[name]
	if !ok {
		return fmt.Errorf("unknown resource: %s", name)
	}
	mergeMetadata(e, nag.Metadata(sups...))
	return nil
}

// Node describes one declared resource for dependency graphing.
type Node struct {
	Type      string
	DependsOn []string
}

// Nodes returns the declared resources and their dependency edges.
func (b *Builder) Nodes() map[string]Node {
	nodes := make(map[string]Node, len(b.entries))
	for name, e := range b.entries {
		nodes[name] = Node{
			Type:      e.resource.ResourceType(),
			DependsOn: append([]string(nil), e.dependsOn...),
		}
	}
	return nodes
}

// Order returns the logical names in creation order.
func (b *Builder) Order() ([]string, error) {
	return b.topologicalSort()
}

// Build constructs the CloudFormation template.
func (b *Builder) Build() (*remediate.Template, error) {
	order, err := b.topologicalSort()
	if err != nil {
		return nil, err
	}

	template := &remediate.Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Description:              b.description,
		Resources:                make(map[string]remediate.ResourceDef, len(order)),
	}

	hasSAMResources := false

	for _, name := range order {
		e := b.entries[name]

		resourceType := e.resource.ResourceType()
		if strings.HasPrefix(resourceType, samTypePrefix) {
			hasSAMResources = true
		}

		props, err := serialize.Resource(e.resource)
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", name, err)
		}

		template.Resources[name] = remediate.ResourceDef{
			Type:           resourceType,
			Properties:     props,
			DependsOn:      append([]string(nil), e.dependsOn...),
			DeletionPolicy: e.deletionPolicy,
			Metadata:       e.metadata,
		}
	}

	if hasSAMResources {
		template.Transform = "AWS::Serverless-2016-10-31"
	}

	return template, nil
}

// topologicalSort returns resources in dependency order.
func (b *Builder) topologicalSort() ([]string, error) {
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range b.entries {
		graph[name] = nil
		inDegree[name] = 0
	}

	for name, e := range b.entries {
		for _, dep := range e.dependsOn {
			if _, exists := b.entries[dep]; !exists {
				return nil, fmt.Errorf("%s depends on undeclared resource %s", name, dep)
			}
			graph[dep] = append(graph[dep], name)
			inDegree[name]++
		}
	}

	// Kahn's algorithm
	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue) // Deterministic order

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range graph[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(b.entries) {
		return nil, b.detectCycle()
	}

	return result, nil
}

// detectCycle finds and reports a cycle in the dependency graph.
func (b *Builder) detectCycle() error {
	visited := make(map[string]bool)
	path := make(map[string]bool)

	var cycle []string
	var findCycle func(node string) bool
	findCycle = func(node string) bool {
		visited[node] = true
		path[node] = true

		for _, dep := range b.entries[node].dependsOn {
			if _, exists := b.entries[dep]; !exists {
				continue
			}
			if !visited[dep] {
				if findCycle(dep) {
					cycle = append([]string{node}, cycle...)
					return true
				}
			} else if path[dep] {
				cycle = append([]string{dep, node}, cycle...)
				return true
			}
		}

		path[node] = false
		return false
	}

	names := make([]string, 0, len(b.entries))
	for name := range b.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !visited[name] {
			if findCycle(name) {
				break
			}
		}
	}

	if len(cycle) > 0 {
		return fmt.Errorf("circular dependency detected: %s", strings.Join(cycle, " -> "))
	}

	return errors.New("circular dependency detected")
}

// ToJSON serializes the template to JSON.
func ToJSON(t *remediate.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *remediate.Template) ([]byte, error) {
	return yaml.Marshal(t)
}
