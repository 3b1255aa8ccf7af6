package config

import (
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/hostfs"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/log"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// 🏗️ OperationJobs opens every job root on the local filesystem and returns
// runnable jobs. The file must have been validated.
func (cfg *File) OperationJobs(collector log.Collector, logger *log.Logger) ([]operation.Job, error) {
	jobs := make([]operation.Job, 0, len(cfg.Jobs))
	for i := range cfg.Jobs {
		job := &cfg.Jobs[i]

		fsys := hostfs.NewLocalFS(hostfs.WithCollisionPolicy(job.CollisionPolicy()))
		root, err := fsys.Open(job.Root)
		if err != nil {
			return nil, errors.Errorf("opening root of job %s: %w", job.Name, err)
		}

		jobs = append(jobs, operation.Job{
			Name: job.Name,
			Options: operation.Options{
				FS:        fsys,
				Root:      root,
				RootPath:  job.Root,
				Walk:      job.WalkOptions(),
				Transform: job.Transform(),
				Mode:      job.RunMode(),
				Collector: collector,
				Logger:    logger,
			},
		})
	}
	return jobs, nil
}
