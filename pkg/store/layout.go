package store

import (
	"path/filepath"
	"time"
)

// Layout resolves the fixed directory tree of spec §6 rooted at DataRoot:
//
//	<data_root>/
//	  monitors/
//	    configs/<name>.yaml
//	    state/<name>.state
//	    alerts/<name>/<ts>.json
//	  research/
//	    <run_id>/
//	      report.md
//	      research_data.json
//	      execution_log.jsonl
//	  logs/
//	    <date>.jsonl
type Layout struct {
	DataRoot string
}

// New returns a Layout rooted at dataRoot.
func New(dataRoot string) Layout { return Layout{DataRoot: dataRoot} }

func (l Layout) MonitorConfigPath(name string) string {
	return filepath.Join(l.DataRoot, "monitors", "configs", name+".yaml")
}

func (l Layout) MonitorConfigDir() string {
	return filepath.Join(l.DataRoot, "monitors", "configs")
}

func (l Layout) MonitorStatePath(name string) string {
	return filepath.Join(l.DataRoot, "monitors", "state", name+".state")
}

func (l Layout) MonitorStateDir() string {
	return filepath.Join(l.DataRoot, "monitors", "state")
}

func (l Layout) MonitorAlertDir(name string) string {
	return filepath.Join(l.DataRoot, "monitors", "alerts", name)
}

func (l Layout) MonitorAlertPath(name string, ts time.Time) string {
	return filepath.Join(l.MonitorAlertDir(name), ts.UTC().Format("20060102T150405Z")+".json")
}

func (l Layout) ResearchRunDir(runID string) string {
	return filepath.Join(l.DataRoot, "research", runID)
}

func (l Layout) ReportPath(runID string) string {
	return filepath.Join(l.ResearchRunDir(runID), "report.md")
}

func (l Layout) ResearchDataPath(runID string) string {
	return filepath.Join(l.ResearchRunDir(runID), "research_data.json")
}

func (l Layout) ExecutionLogPath(runID string) string {
	return filepath.Join(l.ResearchRunDir(runID), "execution_log.jsonl")
}

func (l Layout) OpsLogPath(date time.Time) string {
	return filepath.Join(l.DataRoot, "logs", date.UTC().Format("2006-01-02")+".jsonl")
}
