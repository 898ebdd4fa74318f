package model

import "github.com/gh-audit/gh-audit/pkg/cst"

// RunsUsing identifies the runtime an action's `runs:` block declares.
type RunsUsing int

const (
	RunsUnknown RunsUsing = iota
	RunsComposite
	RunsDocker
	RunsNode
)

func runsUsingOf(s string) RunsUsing {
	switch s {
	case "composite":
		return RunsComposite
	case "docker":
		return RunsDocker
	case "node12", "node16", "node20", "node24":
		return RunsNode
	default:
		return RunsUnknown
	}
}

// Runs is an action's `runs:` block, normalized across the three runtimes
// GitHub Actions supports. Only the fields relevant to the declared Using
// are populated; the rest are left at zero value.
type Runs struct {
	Using RunsUsing

	// RunsComposite
	Steps []Step

	// RunsDocker
	Image      Feature
	Entrypoint Feature
	Args       Value
	PreEntry   Feature
	PostEntry  Feature

	// RunsNode
	Main Feature
	Pre  Feature
	Post Feature

	Feature Feature
}

func decodeRuns(doc *cst.Document, path cst.Path, n cst.Node) Runs {
	r := Runs{Feature: featureOf(doc.FeatureAt(path))}

	usingF := doc.FeatureAt(child(path, "using"))
	if raw, ok := usingF.Value(); ok {
		r.Using = runsUsingOf(raw)
	}

	switch r.Using {
	case RunsComposite:
		if stepsNode, ok := n.Get("steps"); ok && stepsNode.Kind() == cst.SequenceNode {
			stepsPath := child(path, "steps")
			for i, stepNode := range stepsNode.Elements() {
				r.Steps = append(r.Steps, decodeStep(doc, append(append(cst.Path{}, stepsPath...), cst.Index(i)), stepNode, i))
			}
		}
	case RunsDocker:
		r.Image = featureOf(doc.FeatureAt(child(path, "image")))
		r.Entrypoint = featureOf(doc.FeatureAt(child(path, "entrypoint")))
		r.PreEntry = featureOf(doc.FeatureAt(child(path, "pre-entrypoint")))
		r.PostEntry = featureOf(doc.FeatureAt(child(path, "post-entrypoint")))
		if argsNode, ok := n.Get("args"); ok {
			r.Args = valueOf(doc, child(path, "args"), argsNode)
		}
	case RunsNode:
		r.Main = featureOf(doc.FeatureAt(child(path, "main")))
		r.Pre = featureOf(doc.FeatureAt(child(path, "pre")))
		r.Post = featureOf(doc.FeatureAt(child(path, "post")))
	}

	return r
}

// Action is the decoded top level of a standalone `action.yml`/`action.yaml`
// file, as opposed to a workflow file's embedded job/step definitions.
type Action struct {
	Name        Feature
	Description Feature
	Inputs      Value // mapping of input name to {description, required, default, deprecationMessage}
	Outputs     Value // mapping of output name to {description, value?}
	Runs        Runs
	Branding    Value

	Doc     *cst.Document
	Feature Feature
}

// LoadAction parses source as a standalone action definition file.
func LoadAction(fileID int, path string, source []byte) (*Action, *cst.ParseError) {
	doc, parseErr := cst.Load(fileID, path, source)
	if parseErr != nil {
		return nil, parseErr
	}

	root := cst.Path{}
	a := &Action{Doc: doc, Feature: featureOf(doc.FeatureAt(root))}

	rootNode := doc.Root()
	if rootNode.Kind() != cst.MappingNode {
		return a, nil
	}

	a.Name = featureOf(doc.FeatureAt(child(root, "name")))
	a.Description = featureOf(doc.FeatureAt(child(root, "description")))

	if inputsNode, ok := rootNode.Get("inputs"); ok {
		a.Inputs = valueOf(doc, child(root, "inputs"), inputsNode)
	}
	if outputsNode, ok := rootNode.Get("outputs"); ok {
		a.Outputs = valueOf(doc, child(root, "outputs"), outputsNode)
	}
	if brandingNode, ok := rootNode.Get("branding"); ok {
		a.Branding = valueOf(doc, child(root, "branding"), brandingNode)
	}
	if runsNode, ok := rootNode.Get("runs"); ok {
		a.Runs = decodeRuns(doc, child(root, "runs"), runsNode)
	}

	return a, nil
}
