package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/career-engine/internal/models"
)

//go:embed data/*.yaml
var embedded embed.FS

// ErrIncomplete is returned when a loaded catalog does not define every domain
var ErrIncomplete = errors.New("catalog incomplete")

// Catalog holds the career path definitions for all domains.
// It is populated once at start-up and read-only afterwards.
type Catalog struct {
	mu           sync.RWMutex
	paths        map[models.Domain]*models.CareerPath
	achievements map[string]models.Domain
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{
		paths:        make(map[models.Domain]*models.CareerPath),
		achievements: make(map[string]models.Domain),
	}
}

// Default returns the catalog compiled into the binary
func Default() (*Catalog, error) {
	c := New()
	if err := c.LoadFS(embedded, "data"); err != nil {
		return nil, err
	}
	return c, nil
}

// Load returns the catalog from dir, or the embedded catalog when dir is empty
func Load(dir string) (*Catalog, error) {
	if dir == "" {
		return Default()
	}
	c := New()
	if err := c.LoadFromDir(dir); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFromDir loads every YAML path definition from a directory
func (c *Catalog) LoadFromDir(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("failed to read catalog directory: %w", err)
	}
	return c.LoadFS(os.DirFS(dir), ".")
}

// LoadFS loads every YAML path definition under root in fsys and validates the result
func (c *Catalog) LoadFS(fsys fs.FS, root string) error {
	slog.Info("loading career catalog", "root", root)

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := fs.Glob(fsys, filepath.ToSlash(filepath.Join(root, pattern)))
		if err != nil {
			return fmt.Errorf("failed to list catalog files: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		if err := c.add(data); err != nil {
			return fmt.Errorf("invalid career path %s: %w", file, err)
		}
	}

	if err := c.Validate(); err != nil {
		return err
	}

	slog.Info("career catalog loaded", "paths", len(c.paths), "achievements", len(c.achievements))
	return nil
}

// LoadFromFile loads a single YAML path definition
func (c *Catalog) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return c.add(data)
}

func (c *Catalog) add(data []byte) error {
	var pf pathFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	path, err := pf.toCareerPath()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.paths[path.Domain]; exists {
		return fmt.Errorf("domain %q defined twice", path.Domain)
	}
	for _, tag := range path.Achievements {
		if owner, taken := c.achievements[tag]; taken {
			return fmt.Errorf("achievement %q already belongs to %q", tag, owner)
		}
	}

	c.paths[path.Domain] = path
	for _, tag := range path.Achievements {
		c.achievements[tag] = path.Domain
	}

	slog.Debug("career path loaded", "domain", path.Name, "checkpoints", len(path.Checkpoints))
	return nil
}

// Validate checks that every domain of the closed set is defined
func (c *Catalog) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var missing []string
	for _, d := range models.Domains {
		if _, ok := c.paths[d]; !ok {
			missing = append(missing, d.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

// --- Accessors ---

// Path returns the career path for a domain, or nil
func (c *Catalog) Path(d models.Domain) *models.CareerPath {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.paths[d]
}

// Paths returns all career paths in canonical domain order
func (c *Catalog) Paths() []*models.CareerPath {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*models.CareerPath, 0, len(c.paths))
	for _, d := range models.Domains {
		if p, ok := c.paths[d]; ok {
			result = append(result, p)
		}
	}
	return result
}

// Checkpoint returns the checkpoint definition, or nil when id is not part of the domain
func (c *Catalog) Checkpoint(d models.Domain, id string) *models.CatalogCheckpoint {
	p := c.Path(d)
	if p == nil {
		return nil
	}
	return p.Checkpoint(id)
}

// MaxPoints returns the sum of all checkpoint points defined for a domain
func (c *Catalog) MaxPoints(d models.Domain) int {
	p := c.Path(d)
	if p == nil {
		return 0
	}
	return p.MaxPoints()
}

// AchievementDomain returns the domain owning an achievement tag
func (c *Catalog) AchievementDomain(tag string) (models.Domain, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.achievements[tag]
	return d, ok
}

// TierBadge returns the badge awarded for reaching a tier in a domain
func (c *Catalog) TierBadge(d models.Domain, tier models.Tier) string {
	p := c.Path(d)
	if p == nil {
		return ""
	}
	return p.TierBadges[tier]
}

// --- YAML file structs ---

// pathFile represents the YAML structure of a career path file
type pathFile struct {
	Domain         string           `yaml:"domain"`
	Icon           string           `yaml:"icon"`
	Description    string           `yaml:"description"`
	Skills         []string         `yaml:"skills"`
	Checkpoints    []checkpointFile `yaml:"checkpoints"`
	Achievements   []string         `yaml:"achievements"`
	TierBadges     tierBadgesFile   `yaml:"tier_badges"`
	SuccessStories []storyFile      `yaml:"success_stories"`
	Preparation    preparationFile  `yaml:"preparation"`
}

type checkpointFile struct {
	ID       string `yaml:"id"`
	Question string `yaml:"question"`
	Points   int    `yaml:"points"`
}

type tierBadgesFile struct {
	Junior   string `yaml:"junior"`
	MidLevel string `yaml:"mid_level"`
	Senior   string `yaml:"senior"`
}

type storyFile struct {
	Name    string `yaml:"name"`
	Role    string `yaml:"role"`
	Journey string `yaml:"journey"`
	Impact  string `yaml:"impact"`
}

type preparationFile struct {
	Early    []string `yaml:"early"`
	Projects []string `yaml:"projects"`
}

func (pf *pathFile) toCareerPath() (*models.CareerPath, error) {
	domain, err := models.ParseDomain(pf.Domain)
	if err != nil {
		return nil, err
	}

	if len(pf.Checkpoints) == 0 {
		return nil, fmt.Errorf("domain %q has no checkpoints", domain)
	}

	path := &models.CareerPath{
		Domain:       domain,
		Name:         domain.String(),
		Icon:         pf.Icon,
		Description:  pf.Description,
		Skills:       pf.Skills,
		Achievements: pf.Achievements,
		TierBadges:   make(map[models.Tier]string),
		Preparation: models.Preparation{
			Early:    pf.Preparation.Early,
			Projects: pf.Preparation.Projects,
		},
	}

	seen := make(map[string]bool)
	for _, cf := range pf.Checkpoints {
		if cf.ID == "" {
			return nil, fmt.Errorf("checkpoint id is required")
		}
		if seen[cf.ID] {
			return nil, fmt.Errorf("duplicate checkpoint %q", cf.ID)
		}
		if cf.Points <= 0 {
			return nil, fmt.Errorf("checkpoint %q must award positive points", cf.ID)
		}
		seen[cf.ID] = true
		path.Checkpoints = append(path.Checkpoints, models.CatalogCheckpoint{
			ID:       cf.ID,
			Question: cf.Question,
			Points:   cf.Points,
		})
	}

	tags := make(map[string]bool)
	for _, tag := range pf.Achievements {
		if tags[tag] {
			return nil, fmt.Errorf("duplicate achievement %q", tag)
		}
		tags[tag] = true
	}

	for tier, badge := range map[models.Tier]string{
		models.TierJunior:   pf.TierBadges.Junior,
		models.TierMidLevel: pf.TierBadges.MidLevel,
		models.TierSenior:   pf.TierBadges.Senior,
	} {
		if badge == "" {
			continue
		}
		if !tags[badge] {
			return nil, fmt.Errorf("tier badge %q is not in the achievement list", badge)
		}
		path.TierBadges[tier] = badge
	}

	for _, sf := range pf.SuccessStories {
		path.SuccessStories = append(path.SuccessStories, models.SuccessStory{
			Name:    sf.Name,
			Role:    sf.Role,
			Journey: sf.Journey,
			Impact:  sf.Impact,
		})
	}

	return path, nil
}
