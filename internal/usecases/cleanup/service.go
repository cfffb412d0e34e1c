package cleanup

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/metrics"
	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/models"
	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/notification"
	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/reports"
	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/repositories"
	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/rules"
	"github.com/skarzhevskyy/nexus-repository-cleanup/pkg/helper"
)

// Options controls one cleanup run.
type Options struct {
	// DryRun reports what would be removed without calling the delete API.
	DryRun bool

	// Concurrency bounds the repository fan-out. Deletions within one
	// repository are always sequential regardless of this setting.
	Concurrency int

	Timeout time.Duration

	ReportRepositories bool
	ReportGroups       bool
	RepositorySort     reports.SortBy
	GroupSort          reports.SortBy
	TopGroups          int
}

func (o Options) withDefaults() Options {
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Minute
	}
	if o.TopGroups <= 0 {
		o.TopGroups = 10
	}
	return o
}

type CleanupService struct {
	catalog          repositories.ArtifactCatalog
	results          repositories.CleanupResultRepository
	notifier         notification.Notifier
	metrics          metrics.MetricsCollector
	ruleSet          *rules.RuleSet
	reportWriter     reports.Writer
	componentWriter  reports.Writer
	logger           *zap.Logger
	opts             Options
	now              func() time.Time
}

var _ CleanupUseCase = (*CleanupService)(nil)

// NewCleanupService wires a cleanup pipeline. The results repository,
// notifier, report writer and component writer may be nil when the
// corresponding output is not wanted.
func NewCleanupService(
	catalog repositories.ArtifactCatalog,
	results repositories.CleanupResultRepository,
	notifier notification.Notifier,
	metricsCollector metrics.MetricsCollector,
	ruleSet *rules.RuleSet,
	reportWriter reports.Writer,
	componentWriter reports.Writer,
	logger *zap.Logger,
	opts Options,
) *CleanupService {
	return &CleanupService{
		catalog:         catalog,
		results:         results,
		notifier:        notifier,
		metrics:         metricsCollector,
		ruleSet:         ruleSet,
		reportWriter:    reportWriter,
		componentWriter: componentWriter,
		logger:          logger,
		opts:            opts.withDefaults(),
		now:             time.Now,
	}
}

// runState is the only mutable state shared between repository workers.
// All access goes through its mutex.
type runState struct {
	mu           sync.Mutex
	repoSummary  *reports.RepositorySummary
	groupSummary *reports.GroupsSummary
	seen         int
	removed      int
	failed       int
	bytesRemoved int64
	writeErr     error
}

// Cleanup executes one full traversal of the catalog: list repositories,
// gate them, paginate components, match and delete, then write reports.
// Per-component and per-page failures are logged and isolated; the run only
// fails on configuration errors, a failed repository listing, report write
// failures or cancellation.
func (s *CleanupService) Cleanup(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	startTime := s.now()

	matcher, err := rules.Compile(s.ruleSet, startTime)
	if err != nil {
		s.metrics.IncCleanupErrors()
		return fmt.Errorf("failed to compile cleanup rules: %w", err)
	}

	allRepos, err := s.catalog.ListRepositories(ctx)
	if err != nil {
		s.metrics.IncCleanupErrors()
		return fmt.Errorf("failed to list repositories: %w", err)
	}

	scanned := s.selectRepositories(allRepos, matcher)
	s.logger.Info("Repository scan starting",
		zap.Int("total", len(allRepos)),
		zap.Int("selected", len(scanned)),
		zap.Bool("dryRun", s.opts.DryRun),
		zap.Int("concurrency", s.opts.Concurrency))

	run := &runState{
		repoSummary:  reports.NewRepositorySummary(),
		groupSummary: reports.NewGroupsSummary(),
	}

	// Bounded fan-out across repositories; each repository is processed by
	// exactly one worker so deletions stay sequential within it.
	sem := make(chan struct{}, s.opts.Concurrency)
	var wg sync.WaitGroup
	for _, repo := range scanned {
		select {
		case <-ctx.Done():
		case sem <- struct{}{}:
			wg.Add(1)
			go func(repo models.Repository) {
				defer wg.Done()
				defer func() { <-sem }()
				s.processRepository(ctx, repo, matcher, run)
			}(repo)
		}
		if ctx.Err() != nil {
			break
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		s.metrics.IncCleanupErrors()
		return fmt.Errorf("cleanup interrupted: %w", err)
	}

	if run.writeErr != nil {
		s.metrics.IncCleanupErrors()
		return fmt.Errorf("failed to write component report: %w", run.writeErr)
	}

	endTime := s.now()
	duration := endTime.Sub(startTime)

	s.metrics.ObserveCleanupDuration(duration)
	s.metrics.SetLastCleanupTime(endTime)

	if err := s.writeReports(run); err != nil {
		s.metrics.IncCleanupErrors()
		return fmt.Errorf("failed to write reports: %w", err)
	}

	hostname, ips, err := s.getHostInfo()
	hostInfo := "Unknown host"
	if err == nil {
		hostInfo = fmt.Sprintf("Host: %s\nIP(s): %s", hostname, ips)
	}

	s.saveResult(ctx, repositories.CleanupResult{
		HostInfo:            hostInfo,
		DryRun:              s.opts.DryRun,
		StartTime:           startTime,
		EndTime:             endTime,
		Duration:            duration,
		RepositoriesScanned: len(scanned),
		ComponentsSeen:      run.seen,
		ComponentsRemoved:   run.removed,
		ComponentsFailed:    run.failed,
		BytesRemoved:        run.bytesRemoved,
	})

	s.notify(hostInfo, startTime, endTime, duration, len(scanned), run)

	s.logger.Info("Cleanup completed",
		zap.Bool("dryRun", s.opts.DryRun),
		zap.Int("repositories", len(scanned)),
		zap.Int("componentsSeen", run.seen),
		zap.Int("removed", run.removed),
		zap.Int("failed", run.failed),
		zap.Int64("bytesRemoved", run.bytesRemoved),
		zap.Duration("duration", duration.Round(time.Second)))

	return nil
}

// selectRepositories drops aggregate repositories and repositories no
// enabled rule could touch, before any component pagination happens.
func (s *CleanupService) selectRepositories(all []models.Repository, matcher *rules.Matcher) []models.Repository {
	selected := make([]models.Repository, 0, len(all))
	for _, repo := range all {
		if repo.IsAggregate() {
			s.logger.Debug("Skipping aggregate repository",
				zap.String("repository", repo.Name))
			continue
		}
		if !matcher.MatchesRepository(repo.Name) {
			s.metrics.IncRepositoriesSkipped()
			s.logger.Debug("Skipping repository not covered by any rule",
				zap.String("repository", repo.Name))
			continue
		}
		selected = append(selected, repo)
	}
	return selected
}

// processRepository walks the continuation-token chain of one repository.
// A page-fetch failure aborts this repository only; pages already processed
// keep their results.
func (s *CleanupService) processRepository(ctx context.Context, repo models.Repository, matcher *rules.Matcher, run *runState) {
	token := ""
	for {
		page, err := s.catalog.ListComponents(ctx, repo.Name, token)
		if err != nil {
			s.metrics.IncCleanupErrors()
			s.logger.Warn("Aborting repository pagination after page fetch error",
				zap.String("repository", repo.Name),
				zap.String("continuationToken", token),
				zap.Error(err))
			return
		}

		s.logger.Debug("Processing component page",
			zap.String("repository", repo.Name),
			zap.Int("components", len(page.Items)))

		s.processPage(ctx, repo, page.Items, matcher, run)

		token = page.ContinuationToken
		if token == "" {
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// processPage filters one page and acts on the selected components,
// strictly one at a time in page order. Deletion failures are isolated: the
// component is logged, counted as failed, reported as remaining and the
// batch continues.
func (s *CleanupService) processPage(ctx context.Context, repo models.Repository, items []models.Component, matcher *rules.Matcher, run *runState) {
	if len(items) == 0 {
		return
	}

	var selected, remaining []models.Component
	for _, c := range items {
		if matcher.Matches(c) {
			selected = append(selected, c)
		} else {
			remaining = append(remaining, c)
		}
	}

	var removed []models.Component
	var failed int
	if s.opts.DryRun {
		for _, c := range selected {
			s.logger.Info("DRY RUN: would delete component",
				zap.String("repository", repo.Name),
				zap.String("name", c.Name),
				zap.String("version", c.Version))
		}
		removed = selected
	} else {
		for _, c := range selected {
			if err := s.catalog.DeleteComponent(ctx, c.ID); err != nil {
				failed++
				remaining = append(remaining, c)
				s.metrics.IncDeleteFailures()
				s.logger.Error("Failed to delete component",
					zap.String("repository", repo.Name),
					zap.String("id", c.ID),
					zap.String("name", c.Name),
					zap.String("version", c.Version),
					zap.Error(err))
				continue
			}
			removed = append(removed, c)
			s.metrics.IncComponentsRemoved()
			s.logger.Info("Deleted component",
				zap.String("repository", repo.Name),
				zap.String("name", c.Name),
				zap.String("version", c.Version))
		}
	}
	s.metrics.AddComponentsKept(len(items) - len(selected))

	s.addToReports(repo, selected, removed, remaining, failed, len(items), run)
}

// addToReports applies one page worth of results to the shared accumulators.
func (s *CleanupService) addToReports(repo models.Repository, selected, removed, remaining []models.Component, failed, seen int, run *runState) {
	removedBytes := totalSize(removed)
	remainingBytes := totalSize(remaining)

	run.mu.Lock()
	defer run.mu.Unlock()

	run.seen += seen
	run.removed += len(removed)
	run.failed += failed
	run.bytesRemoved += removedBytes

	if s.opts.ReportRepositories {
		run.repoSummary.Add(repo.Name, repo.Format,
			int64(len(removed)), removedBytes,
			int64(len(remaining)), remainingBytes)
	}

	if s.opts.ReportGroups {
		addGroupStats(run.groupSummary, removed, remaining)
	}

	if s.componentWriter != nil && run.writeErr == nil {
		for _, c := range selected {
			if err := s.componentWriter.WriteComponent(c); err != nil {
				run.writeErr = err
				break
			}
		}
	}
}

func addGroupStats(summary *reports.GroupsSummary, removed, remaining []models.Component) {
	type groupTally struct {
		removedCount, remainingCount int64
		removedBytes, remainingBytes int64
	}
	tallies := make(map[string]*groupTally)
	tally := func(group string) *groupTally {
		t, ok := tallies[group]
		if !ok {
			t = &groupTally{}
			tallies[group] = t
		}
		return t
	}

	for _, c := range removed {
		if c.Group == "" {
			continue
		}
		t := tally(c.Group)
		t.removedCount++
		t.removedBytes += c.SizeBytes()
	}
	for _, c := range remaining {
		if c.Group == "" {
			continue
		}
		t := tally(c.Group)
		t.remainingCount++
		t.remainingBytes += c.SizeBytes()
	}

	for group, t := range tallies {
		summary.Add(group, t.removedCount, t.removedBytes, t.remainingCount, t.remainingBytes)
	}
}

func (s *CleanupService) writeReports(run *runState) error {
	if s.reportWriter == nil {
		return nil
	}

	if s.opts.ReportRepositories {
		if err := s.reportWriter.WriteRepositorySummary(run.repoSummary, s.opts.RepositorySort); err != nil {
			return err
		}
	}
	if s.opts.ReportGroups {
		if err := s.reportWriter.WriteGroupsSummary(run.groupSummary, s.opts.GroupSort, s.opts.TopGroups); err != nil {
			return err
		}
	}
	return nil
}

// saveResult persists the run outcome. Persistence failures are logged but
// never fail a run whose deletions already happened.
func (s *CleanupService) saveResult(ctx context.Context, result repositories.CleanupResult) {
	if s.results == nil {
		return
	}
	if err := s.results.SaveResult(ctx, result); err != nil {
		s.logger.Error("Failed to save cleanup result", zap.Error(err))
	}
}

func (s *CleanupService) notify(hostInfo string, startTime, endTime time.Time, duration time.Duration, repos int, run *runState) {
	if s.notifier == nil {
		return
	}
	message := helper.FormatCleanupMessage(hostInfo, s.opts.DryRun,
		startTime, endTime, duration,
		repos, run.seen, run.removed, run.failed, run.bytesRemoved)
	if err := s.notifier.SendNotification(message); err != nil {
		s.logger.Error("Failed to send notification", zap.Error(err))
	}
}

// GetLastCleanupStats returns the stats of the most recent persisted run.
func (s *CleanupService) GetLastCleanupStats(ctx context.Context) (*CleanupStats, error) {
	if s.results == nil {
		return nil, fmt.Errorf("cleanup result storage is not configured")
	}

	result, err := s.results.GetLatestResult(ctx)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	return &CleanupStats{
		HostInfo:            result.HostInfo,
		DryRun:              result.DryRun,
		StartTime:           result.StartTime,
		EndTime:             result.EndTime,
		Duration:            result.Duration,
		RepositoriesScanned: result.RepositoriesScanned,
		ComponentsSeen:      result.ComponentsSeen,
		Removed:             result.ComponentsRemoved,
		Failed:              result.ComponentsFailed,
		BytesRemoved:        result.BytesRemoved,
	}, nil
}

func totalSize(components []models.Component) int64 {
	var total int64
	for _, c := range components {
		total += c.SizeBytes()
	}
	return total
}

// getHostInfo returns hostname and IPv4 addresses of the machine running
// the job, for notifications and run history.
func (s *CleanupService) getHostInfo() (string, string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", "", fmt.Errorf("failed to get hostname: %w", err)
	}

	interfaces, err := net.Interfaces()
	if err != nil {
		return hostname, "", fmt.Errorf("failed to get network interfaces: %w", err)
	}

	var ipAddresses []string
	for _, iface := range interfaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if !ipNet.IP.IsLoopback() && ipNet.IP.To4() != nil {
				ipAddresses = append(ipAddresses, ipNet.IP.String())
			}
		}
	}

	return hostname, strings.Join(ipAddresses, ", "), nil
}
