package model

import "github.com/gh-audit/gh-audit/pkg/cst"

// Workflow is the decoded top level of a `.github/workflows/*.yml` file.
type Workflow struct {
	Name        Feature
	On          TriggerSet
	Permissions PermissionMap
	Env         Value
	Defaults    Value
	Concurrency Value
	Jobs        map[string]Job
	JobOrder    []string // document order, so renderers and audits iterate deterministically

	Doc     *cst.Document
	Feature Feature
}

// LoadWorkflow parses source as a GitHub Actions workflow file. A YAML
// syntax error is returned as-is (the caller turns it into a fatal
// syntax-error finding); a workflow that parses as YAML but isn't shaped
// like a workflow (e.g. a scalar document, or no top-level mapping) yields
// a Workflow with only Doc and Feature set (no triggers, permissions or
// jobs decoded) rather than an error —
// schema validation against that is a separate, non-fatal concern.
func LoadWorkflow(fileID int, path string, source []byte) (*Workflow, *cst.ParseError) {
	doc, parseErr := cst.Load(fileID, path, source)
	if parseErr != nil {
		return nil, parseErr
	}

	root := cst.Path{}
	w := &Workflow{Doc: doc, Feature: featureOf(doc.FeatureAt(root))}

	rootNode := doc.Root()
	if rootNode.Kind() != cst.MappingNode {
		return w, nil
	}

	w.Name = featureOf(doc.FeatureAt(child(root, "name")))
	w.Permissions = decodePermissions(doc, child(root, "permissions"), doc.FeatureAt(child(root, "permissions")))

	if onNode, ok := rootNode.Get("on"); ok {
		w.On = decodeTriggerSet(doc, child(root, "on"), onNode)
	} else {
		w.On = TriggerSet{Feature: featureOf(doc.FeatureAt(child(root, "on")))}
	}

	if envNode, ok := rootNode.Get("env"); ok {
		w.Env = valueOf(doc, child(root, "env"), envNode)
	}
	if defaultsNode, ok := rootNode.Get("defaults"); ok {
		w.Defaults = valueOf(doc, child(root, "defaults"), defaultsNode)
	}
	if concurrencyNode, ok := rootNode.Get("concurrency"); ok {
		w.Concurrency = valueOf(doc, child(root, "concurrency"), concurrencyNode)
	}

	if jobsNode, ok := rootNode.Get("jobs"); ok && jobsNode.Kind() == cst.MappingNode {
		jobsPath := child(root, "jobs")
		w.Jobs = make(map[string]Job, len(jobsNode.MappingPairs()))
		for _, pair := range jobsNode.MappingPairs() {
			id := pair.Key.Value()
			jobPath := append(append(cst.Path{}, jobsPath...), cst.Key(id))
			w.Jobs[id] = decodeJob(doc, jobPath, pair.Value, id)
			w.JobOrder = append(w.JobOrder, id)
		}
	}

	return w, nil
}
