package loader

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/specialistvlad/cdlex/internal/ctxlog"
	"github.com/specialistvlad/cdlex/internal/fsutil"
	"github.com/specialistvlad/cdlex/internal/instpath"
	"github.com/specialistvlad/cdlex/internal/model"
)

var kinds = map[string]model.Kind{
	"":          model.KindComponent,
	"component": model.KindComponent,
	"record":    model.KindRecord,
}

var prefixes = map[string]model.Prefix{
	"":      model.PrefixNone,
	"inner": model.PrefixInner,
	"outer": model.PrefixOuter,
}

// Load reads a flattened template from a single .json file or from every
// .json file under a directory. Instances from multiple files merge into one
// flat list before the tree is rebuilt, so a flattener may split large
// templates however it likes.
func Load(ctx context.Context, path string) (*model.Tree, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat model path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, ".json")
		if err != nil {
			return nil, fmt.Errorf("scanning model directory: %w", err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no .json files found under %q", path)
		}
	}
	logger.Debug("Loading flattened template.", "path", path, "files", len(files))

	var flat []*instanceModel
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", file, err)
		}
		var fm fileModel
		if err := json.Unmarshal(raw, &fm); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", file, err)
		}
		flat = append(flat, fm.Instances...)
	}

	tree, err := buildTree(flat)
	if err != nil {
		return nil, err
	}
	logger.Debug("Template loaded.", "instances", tree.Len())
	return tree, nil
}

// buildTree rebuilds the nested instance tree from the flat path-keyed list.
// Parents must appear before their children are attached, but not before
// they appear in the file: attachment happens in a second pass, so file
// order is free.
func buildTree(flat []*instanceModel) (*model.Tree, error) {
	byPath := make(map[string]*model.Instance, len(flat))
	ordered := make([]*model.Instance, 0, len(flat))
	var root *model.Instance

	for _, im := range flat {
		in, err := convertInstance(im)
		if err != nil {
			return nil, err
		}
		key := in.Path.String()
		if _, dup := byPath[key]; dup {
			return nil, fmt.Errorf("duplicate instance path %q", key)
		}
		byPath[key] = in
		ordered = append(ordered, in)

		if in.Path.IsEmpty() {
			root = in
		}
	}

	if root == nil {
		return nil, fmt.Errorf("no root instance (empty path) in template")
	}

	for _, in := range ordered {
		if in.Path.IsEmpty() {
			continue
		}
		parentKey := in.Path.Parent().String()
		parent, ok := byPath[parentKey]
		if !ok {
			return nil, fmt.Errorf("instance %q has no parent %q", in.Path.String(), parentKey)
		}
		parent.Children = append(parent.Children, in)
	}

	return model.NewTree(root)
}

func convertInstance(im *instanceModel) (*model.Instance, error) {
	kind, ok := kinds[im.Kind]
	if !ok {
		return nil, fmt.Errorf("instance %q: unknown kind %q", im.Path, im.Kind)
	}
	prefix, ok := prefixes[im.Prefix]
	if !ok {
		return nil, fmt.Errorf("instance %q: unknown prefix %q", im.Path, im.Prefix)
	}

	var path instpath.Path
	if im.Path != "" {
		var err error
		path, err = instpath.Parse(im.Path)
		if err != nil {
			return nil, fmt.Errorf("instance path %q: %w", im.Path, err)
		}
	}

	in := &model.Instance{
		Path:        path,
		ClassPath:   im.Class,
		Kind:        kind,
		Prefix:      prefix,
		Annotations: im.Annotations,
	}

	for _, pm := range im.Parameters {
		if pm.Name == "" {
			return nil, fmt.Errorf("instance %q: parameter without a name", im.Path)
		}
		node, err := decodeExpr(pm.Expr)
		if err != nil {
			return nil, fmt.Errorf("instance %q, parameter %q: %w", im.Path, pm.Name, err)
		}
		in.Parameters = append(in.Parameters, &model.ParameterBinding{Name: pm.Name, Expr: node})
	}

	for _, cm := range im.Connections {
		from, err := convertEndpoint(cm.From)
		if err != nil {
			return nil, fmt.Errorf("instance %q: %w", im.Path, err)
		}
		to, err := convertEndpoint(cm.To)
		if err != nil {
			return nil, fmt.Errorf("instance %q: %w", im.Path, err)
		}
		in.Connections = append(in.Connections, &model.Connection{
			From:      from,
			To:        to,
			Annotated: cm.Annotated,
		})
	}

	return in, nil
}

func convertEndpoint(em endpointModel) (model.Endpoint, error) {
	if em.Port == "" {
		return model.Endpoint{}, fmt.Errorf("connection endpoint without a port")
	}
	path, err := instpath.Parse(em.Instance)
	if err != nil {
		return model.Endpoint{}, fmt.Errorf("connection endpoint %q: %w", em.Instance, err)
	}
	return model.Endpoint{Instance: path, Port: em.Port, Expandable: em.Expandable}, nil
}
