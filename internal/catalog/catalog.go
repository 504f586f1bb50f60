// Package catalog holds the static course content: ordered courses with
// ordered modules, each owning one quiz. The catalog is immutable at
// runtime and validated at load, so the progress and quiz code can assume
// well-formed content (non-empty quizzes, in-range answer indices).
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"edutech_backend/internal/config"
	"edutech_backend/internal/model"
	"edutech_backend/internal/util"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed data/courses.json
var embeddedCourses []byte

type Catalog struct {
	courses []model.Course
	byID    map[string]int
}

// Load reads the catalog from cfg.Path, or from the embedded course data
// when no path is configured.
func Load(cfg *config.CatalogConfig) (*Catalog, error) {
	raw := embeddedCourses
	if cfg != nil && cfg.Path != "" {
		var err error
		raw, err = os.ReadFile(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", cfg.Path, err)
		}
	}
	return Parse(raw)
}

// Parse validates raw catalog JSON against the authoring schema and the
// structural rules the schema cannot express, then builds the index.
func Parse(raw []byte) (*Catalog, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("catalog is not valid JSON: %w", err)
	}

	compiled, err := compileSchema()
	if err != nil {
		return nil, err
	}
	if err := compiled.Validate(parsed); err != nil {
		return nil, fmt.Errorf("catalog schema validation failed: %w", err)
	}

	var courses []model.Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		return nil, err
	}
	return New(courses)
}

// New builds a catalog from already-decoded courses, enforcing unique IDs
// and correct-answer indices within option bounds.
func New(courses []model.Course) (*Catalog, error) {
	byID := make(map[string]int, len(courses))
	moduleIDs := make(map[string]bool)

	for i, course := range courses {
		if _, dup := byID[course.ID]; dup {
			return nil, fmt.Errorf("duplicate course id %q", course.ID)
		}
		byID[course.ID] = i

		if len(course.Modules) == 0 {
			return nil, fmt.Errorf("course %q has no modules", course.ID)
		}
		for _, mod := range course.Modules {
			if moduleIDs[mod.ID] {
				return nil, fmt.Errorf("duplicate module id %q", mod.ID)
			}
			moduleIDs[mod.ID] = true

			if len(mod.Quiz.Questions) == 0 {
				return nil, fmt.Errorf("module %q has an empty quiz", mod.ID)
			}
			for _, q := range mod.Quiz.Questions {
				if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
					return nil, fmt.Errorf("question %q: correct answer index %d out of range (%d options)",
						q.ID, q.CorrectAnswer, len(q.Options))
				}
			}
		}
	}

	return &Catalog{courses: courses, byID: byID}, nil
}

// Courses returns the ordered course list.
func (c *Catalog) Courses() []model.Course {
	return c.courses
}

func (c *Catalog) GetCourse(courseID string) (*model.Course, error) {
	idx, ok := c.byID[courseID]
	if !ok {
		return nil, util.ErrCourseNotFound
	}
	return &c.courses[idx], nil
}

// GetModule returns the module at the given position in the course.
func (c *Catalog) GetModule(courseID string, index int) (*model.Module, error) {
	course, err := c.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(course.Modules) {
		return nil, util.ErrModuleNotFound
	}
	return &course.Modules[index], nil
}

// FindModule locates a module by ID within a course and reports its
// position in the unlock sequence.
func (c *Catalog) FindModule(courseID, moduleID string) (int, *model.Module, error) {
	course, err := c.GetCourse(courseID)
	if err != nil {
		return 0, nil, err
	}
	for i := range course.Modules {
		if course.Modules[i].ID == moduleID {
			return i, &course.Modules[i], nil
		}
	}
	return 0, nil, util.ErrModuleNotFound
}

func compileSchema() (*jsonschema.Schema, error) {
	defBytes, err := json.Marshal(catalogSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	const schemaURL = "schema://catalog.json"
	if err := compiler.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return compiler.Compile(schemaURL)
}
