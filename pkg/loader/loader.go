package loader

import (
	"os"

	"conveyor/pkg/api"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// document mirrors the YAML layout of a pipeline definition. Jobs are kept as
// a raw node so their declaration order survives decoding.
type document struct {
	Name string    `yaml:"name"`
	On   stringSet `yaml:"on"`
	Jobs yaml.Node `yaml:"jobs"`
}

type jobDocument struct {
	Needs   stringSet         `yaml:"needs"`
	RunsOn  string            `yaml:"runs-on"`
	Matrix  *matrixDocument   `yaml:"matrix"`
	Steps   []stepDocument    `yaml:"steps"`
	Env     map[string]string `yaml:"env"`
	Secrets map[string]string `yaml:"secrets"`
}

type matrixDocument struct {
	Axes    map[string][]string `yaml:"axes"`
	Include []map[string]string `yaml:"include"`
}

type stepDocument struct {
	Name string            `yaml:"name"`
	Uses string            `yaml:"uses"`
	With map[string]string `yaml:"with"`
	Run  string            `yaml:"run"`
	Env  map[string]string `yaml:"env"`
}

// stringSet accepts both a single scalar and a sequence.
type stringSet []string

func (s *stringSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v string
		if err := node.Decode(&v); err != nil {
			return err
		}
		*s = []string{v}
	case yaml.SequenceNode:
		var v []string
		if err := node.Decode(&v); err != nil {
			return err
		}
		*s = v
	default:
		return errors.Errorf("line %d: expected string or list of strings", node.Line)
	}
	return nil
}

// Load reads and parses the pipeline definition at the given path.
func Load(path string) (api.PipelineSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return api.PipelineSpec{}, errors.Wrapf(err, "cannot read file %s", path)
	}
	spec, err := Parse(data)
	if err != nil {
		return api.PipelineSpec{}, errors.Wrapf(err, "cannot parse file %s", path)
	}
	return spec, nil
}

// Parse parses YAML content into an immutable pipeline definition and
// validates it. Job declaration order is preserved; it determines the
// in-batch display order of the resolver.
func Parse(data []byte) (api.PipelineSpec, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return api.PipelineSpec{}, errors.Wrap(err, "cannot decode pipeline definition")
	}

	spec := api.PipelineSpec{
		Name: doc.Name,
		On:   doc.On,
	}

	if doc.Jobs.Kind != 0 && doc.Jobs.Kind != yaml.MappingNode {
		return api.PipelineSpec{}, errors.Errorf("line %d: jobs must be a mapping", doc.Jobs.Line)
	}
	// Mapping content alternates key and value nodes.
	for i := 0; i+1 < len(doc.Jobs.Content); i += 2 {
		keyNode, valNode := doc.Jobs.Content[i], doc.Jobs.Content[i+1]
		var jd jobDocument
		if err := valNode.Decode(&jd); err != nil {
			return api.PipelineSpec{}, errors.Wrapf(err, "cannot decode job %s", keyNode.Value)
		}
		job := api.JobSpec{
			Name:    keyNode.Value,
			Needs:   jd.Needs,
			RunsOn:  jd.RunsOn,
			Env:     jd.Env,
			Secrets: jd.Secrets,
		}
		if jd.Matrix != nil {
			job.Matrix = &api.MatrixSpec{
				Axes:    jd.Matrix.Axes,
				Include: jd.Matrix.Include,
			}
		}
		for _, sd := range jd.Steps {
			job.Steps = append(job.Steps, api.StepSpec{
				Name: sd.Name,
				Uses: sd.Uses,
				With: sd.With,
				Run:  sd.Run,
				Env:  sd.Env,
			})
		}
		spec.Jobs = append(spec.Jobs, job)
	}

	if err := spec.Validate(); err != nil {
		return api.PipelineSpec{}, err
	}
	return spec, nil
}
