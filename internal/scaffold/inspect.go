package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// RouterInfo describes one registered route group in a generated project.
type RouterInfo struct {
	Module string   // owning module; empty in layered projects
	Group  string   // route group name, e.g. "Book" or "Auth"
	Routes []string // endpoints, e.g. "POST /books"
}

var (
	registerLinePattern = regexp.MustCompile(`register(\w+)Routes\(mux, m\)`)
	handleFuncPattern   = regexp.MustCompile(`mux\.HandleFunc\("([A-Z]+ [^"]+)"`)
)

// ListRouters inspects a generated project and reports its route groups in
// registration order. Works for both flavors; modular projects report the
// owning module per group.
func ListRouters(projectDir string) ([]RouterInfo, error) {
	if _, err := os.Stat(filepath.Join(projectDir, "internal", "modules", "modules.go")); err == nil {
		return listModularRouters(projectDir)
	}

	registry := filepath.Join(projectDir, "internal", "httpapi", "routes.go")
	if _, err := os.Stat(registry); err != nil {
		return nil, fmt.Errorf("%s is not a forge project (missing route registry)", projectDir)
	}
	return listGroupRouters(filepath.Join(projectDir, "internal", "httpapi"), registry, "")
}

func listModularRouters(projectDir string) ([]RouterInfo, error) {
	internalDir := filepath.Join(projectDir, "internal")
	entries, err := os.ReadDir(internalDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", internalDir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		moduleFile := filepath.Join(internalDir, entry.Name(), "module.go")
		if _, err := os.Stat(moduleFile); err == nil {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var routers []RouterInfo
	for _, name := range names {
		moduleDir := filepath.Join(internalDir, name)
		moduleFile := filepath.Join(moduleDir, "module.go")

		// Routes declared directly in the module mount.
		data, err := os.ReadFile(moduleFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", moduleFile, err)
		}
		if own := extractRoutes(string(data)); len(own) > 0 {
			routers = append(routers, RouterInfo{Module: name, Group: exportedName(name), Routes: own})
		}

		groups, err := listGroupRouters(moduleDir, moduleFile, name)
		if err != nil {
			return nil, err
		}
		routers = append(routers, groups...)
	}
	return routers, nil
}

// listGroupRouters reads a route registry and resolves each registered
// group to its routes file.
func listGroupRouters(routesDir, registryFile, module string) ([]RouterInfo, error) {
	data, err := os.ReadFile(registryFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", registryFile, err)
	}

	var routers []RouterInfo
	for _, match := range registerLinePattern.FindAllStringSubmatch(string(data), -1) {
		group := match[1]
		info := RouterInfo{Module: module, Group: group}

		routesFile := filepath.Join(routesDir, strings.ToLower(group)+"_routes.go")
		if content, err := os.ReadFile(routesFile); err == nil {
			info.Routes = extractRoutes(string(content))
		}
		routers = append(routers, info)
	}
	return routers, nil
}

func extractRoutes(source string) []string {
	var routes []string
	for _, match := range handleFuncPattern.FindAllStringSubmatch(source, -1) {
		routes = append(routes, match[1])
	}
	return routes
}
