package plugins

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

const stubFuncName = "Commands"

// LoadStub evaluates a Go plugin stub with yaegi and collects the commands
// its Commands() function declares.
func LoadStub(path string) (*Plugin, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin stub %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return nil, fmt.Errorf("plugin stub %s is empty", path)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to initialize interpreter: %w", err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("failed to interpret plugin stub %s: %w", path, err)
	}

	fnValue, err := i.Eval(stubFuncName)
	if err != nil {
		return nil, fmt.Errorf("plugin stub %s must define %s() []map[string]string: %w", path, stubFuncName, err)
	}
	rows, err := invokeStubFunc(fnValue)
	if err != nil {
		return nil, fmt.Errorf("plugin stub %s: %w", path, err)
	}

	plugin := &Plugin{
		Name:   stubName(path),
		Source: path,
		Kind:   KindStub,
	}
	for _, row := range rows {
		plugin.Commands = append(plugin.Commands, CommandSpec{
			Name:   row["name"],
			Short:  row["short"],
			Output: row["output"],
		})
	}
	if err := plugin.validate(); err != nil {
		return nil, err
	}
	return plugin, nil
}

// stubName derives the plugin name from its file name, dropping a
// trailing "_plugin" suffix.
func stubName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".go")
	return strings.TrimSuffix(name, "_plugin")
}

// invokeStubFunc calls the evaluated Commands function, tolerating an
// optional trailing error return.
func invokeStubFunc(value reflect.Value) ([]map[string]string, error) {
	if !value.IsValid() || value.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", stubFuncName)
	}
	results := value.Call(nil)
	if len(results) == 0 || len(results) > 2 {
		return nil, fmt.Errorf("%s must return []map[string]string with an optional error", stubFuncName)
	}
	if len(results) == 2 && !results[1].IsNil() {
		if e, ok := results[1].Interface().(error); ok {
			return nil, e
		}
		return nil, fmt.Errorf("%s returned a non-error second value", stubFuncName)
	}

	rowsVal := results[0]
	if rows, ok := rowsVal.Interface().([]map[string]string); ok {
		return rows, nil
	}
	if rowsVal.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%s must return []map[string]string", stubFuncName)
	}
	rows := make([]map[string]string, rowsVal.Len())
	for i := 0; i < rowsVal.Len(); i++ {
		row, ok := rowsVal.Index(i).Interface().(map[string]string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] is not map[string]string", stubFuncName, i)
		}
		rows[i] = row
	}
	return rows, nil
}
