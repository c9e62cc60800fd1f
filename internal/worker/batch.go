package worker

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/chen-albert-liang/grading-tool/internal/model"
	"github.com/chen-albert-liang/grading-tool/internal/ocr"
)

// Grader abstracts the per-student grading pipeline.
type Grader interface {
	Grade(studentID string, fragments []model.Fragment, template *model.Template) (*model.GradingResult, error)
}

// Loader abstracts OCR result file loading.
type Loader interface {
	LoadFile(path string) ([]model.Fragment, error)
}

// GradeJob grades one student's OCR result file.
type GradeJob struct {
	Path      string
	StudentID string
	Template  *model.Template
	Loader    Loader
	Grader    Grader
}

// Execute loads the student's fragments and grades them.
func (j *GradeJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &GradeResult{StudentID: j.StudentID, Path: j.Path, Err: err}
	}
	fragments, err := j.Loader.LoadFile(j.Path)
	if err != nil {
		return &GradeResult{StudentID: j.StudentID, Path: j.Path, Err: fmt.Errorf("load ocr: %w", err)}
	}
	result, err := j.Grader.Grade(j.StudentID, fragments, j.Template)
	if err != nil {
		return &GradeResult{StudentID: j.StudentID, Path: j.Path, Err: err}
	}
	return &GradeResult{StudentID: j.StudentID, Path: j.Path, Result: result}
}

// GradeResult is the outcome of one grading job.
type GradeResult struct {
	StudentID string
	Path      string
	Result    *model.GradingResult
	Err       error
}

// GetError returns the job error, if any.
func (r *GradeResult) GetError() error { return r.Err }

// BatchGrader grades many students concurrently. A failure grading one
// student is logged with the student id and skipped; the batch continues.
type BatchGrader struct {
	grader      Grader
	loader      Loader
	concurrency int
	logger      *slog.Logger
}

// NewBatchGrader creates a batch grader.
func NewBatchGrader(grader Grader, loader Loader, concurrency int) *BatchGrader {
	return &BatchGrader{
		grader:      grader,
		loader:      loader,
		concurrency: concurrency,
		logger:      slog.Default(),
	}
}

// GradeFiles grades the given OCR result files against the template and
// returns per-file results ordered by student id.
func (b *BatchGrader) GradeFiles(ctx context.Context, paths []string, template *model.Template) []*GradeResult {
	if len(paths) == 0 {
		return []*GradeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	for _, path := range paths {
		pool.Submit(&GradeJob{
			Path:      path,
			StudentID: ocr.StudentIDFromPath(path),
			Template:  template,
			Loader:    b.loader,
			Grader:    b.grader,
		})
	}

	raw := pool.Wait()
	results := make([]*GradeResult, 0, len(raw))
	for _, r := range raw {
		gr := r.(*GradeResult)
		if gr.Err != nil {
			b.logger.Error("grading failed",
				"student_id", gr.StudentID, "path", gr.Path, "error", gr.Err)
		}
		results = append(results, gr)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].StudentID < results[j].StudentID
	})
	return results
}

// GradeDir grades every OCR result file in dir matching "*_res.json",
// skipping the answer-key file by name.
func (b *BatchGrader) GradeDir(ctx context.Context, dir, answerKey string, template *model.Template) ([]*GradeResult, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*_res.json"))
	if err != nil {
		return nil, fmt.Errorf("list ocr files: %w", err)
	}

	var paths []string
	for _, m := range matches {
		if answerKey != "" && filepath.Base(m) == answerKey {
			continue
		}
		paths = append(paths, m)
	}
	return b.GradeFiles(ctx, paths, template), nil
}

// Successes extracts the grading results of successful jobs.
func Successes(results []*GradeResult) []*model.GradingResult {
	var out []*model.GradingResult
	for _, r := range results {
		if r.Err == nil && r.Result != nil {
			out = append(out, r.Result)
		}
	}
	return out
}
