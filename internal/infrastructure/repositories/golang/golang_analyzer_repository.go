package golang

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/mod/modfile"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/domain/repositories"
)

const (
	analyzerName = "golang"
	manifestPath = "go.mod"

	// AnnotationGoModule records the module path declared in go.mod.
	AnnotationGoModule = "catalogdiscovery.io/go-module"
)

// moduleTag associates a module path prefix with the tag it contributes.
type moduleTag struct {
	prefix string
	tag    string
}

var moduleTags = []moduleTag{ //nolint:gochecknoglobals // read-only lookup table
	{"github.com/spf13/cobra", "cli"},
	{"github.com/urfave/cli", "cli"},
	{"google.golang.org/grpc", "grpc"},
	{"github.com/gin-gonic/gin", "gin"},
	{"github.com/labstack/echo", "echo"},
	{"github.com/go-chi/chi", "chi"},
	{"github.com/gofiber/fiber", "fiber"},
	{"gorm.io/gorm", "gorm"},
	{"github.com/jackc/pgx", "postgres"},
	{"github.com/lib/pq", "postgres"},
	{"github.com/aws/aws-sdk-go", "aws"},
	{"k8s.io/client-go", "kubernetes"},
	{"github.com/hashicorp/terraform-plugin-framework", "terraform-provider"},
}

// GolangAnalyzerRepository tags repositories holding a Go module at their root.
type GolangAnalyzerRepository struct{}

// NewAnalyzerRepository creates the go.mod analyzer.
func NewAnalyzerRepository() repositories.AnalyzerRepository {
	return &GolangAnalyzerRepository{}
}

func (a *GolangAnalyzerRepository) Name() string { return analyzerName }

func (a *GolangAnalyzerRepository) Analyze(
	ctx context.Context,
	repository entities.Repository,
	output *entities.AnalysisOutputs,
) error {
	files, err := repository.Files(ctx)
	if err != nil {
		return fmt.Errorf("failed to list files of %s: %w", repository.Name(), err)
	}

	file, found := entities.FindFile(files, manifestPath)
	if !found {
		return nil
	}

	modFile, err := modfile.ParseLax(manifestPath, []byte(file.Content), nil)
	if err != nil {
		logger.Debugf("Ignoring malformed %s of %s: %v", manifestPath, repository.Name(), err)
		return nil
	}

	entity := output.EntityOrNew(repository.Name())
	entity.AddTags("go")
	if modFile.Module != nil && modFile.Module.Mod.Path != "" {
		entity.SetAnnotation(AnnotationGoModule, modFile.Module.Mod.Path)
	}
	for _, require := range modFile.Require {
		if require.Indirect {
			continue
		}
		for _, known := range moduleTags {
			if require.Mod.Path == known.prefix || strings.HasPrefix(require.Mod.Path, known.prefix+"/") {
				entity.AddTags(known.tag)
			}
		}
	}
	return nil
}
