package scene

import "fmt"

// Issue describes one problem found in a scene list.
type Issue struct {
	Scene   string
	Hotspot string
	Problem string
}

func (i Issue) String() string {
	if i.Hotspot != "" {
		return fmt.Sprintf("scene %q hotspot %q: %s", i.Scene, i.Hotspot, i.Problem)
	}
	return fmt.Sprintf("scene %q: %s", i.Scene, i.Problem)
}

// Validate checks the invariants of a scene list: unique scene ids, unique
// hotspot ids per scene, known hotspot kinds, navigation hotspots with a
// target, and targets that exist. It never modifies the input.
func Validate(scenes []Scene) []Issue {
	var issues []Issue
	ids := make(map[string]bool, len(scenes))
	for _, s := range scenes {
		if s.ID == "" {
			issues = append(issues, Issue{Problem: "missing id"})
			continue
		}
		if ids[s.ID] {
			issues = append(issues, Issue{Scene: s.ID, Problem: "duplicate scene id"})
		}
		ids[s.ID] = true
	}

	for _, s := range scenes {
		if s.ImageURL == "" {
			issues = append(issues, Issue{Scene: s.ID, Problem: "missing image"})
		}
		seen := make(map[string]bool, len(s.Hotspots))
		for _, h := range s.Hotspots {
			switch {
			case h.ID == "":
				issues = append(issues, Issue{Scene: s.ID, Problem: "hotspot without id"})
				continue
			case seen[h.ID]:
				issues = append(issues, Issue{Scene: s.ID, Hotspot: h.ID, Problem: "duplicate hotspot id"})
			}
			seen[h.ID] = true

			if !h.Kind.Valid() {
				issues = append(issues, Issue{Scene: s.ID, Hotspot: h.ID, Problem: fmt.Sprintf("unknown type %q", h.Kind)})
			}
			if h.Kind == KindNavigation && h.TargetScene == "" {
				issues = append(issues, Issue{Scene: s.ID, Hotspot: h.ID, Problem: "navigation hotspot without target scene"})
			}
			if h.TargetScene != "" && !ids[h.TargetScene] {
				issues = append(issues, Issue{Scene: s.ID, Hotspot: h.ID, Problem: fmt.Sprintf("target scene %q does not exist", h.TargetScene)})
			}
		}
	}
	return issues
}
