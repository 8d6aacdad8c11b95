package buslock

import (
	"github.com/displayctl/displayctl/internal/procinfo"
	"github.com/displayctl/displayctl/pkg/logging"
)

// Diagnose inspects kernel lock state for the device at path and emits a
// report of the processes holding an advisory lock on it. With
// emitToSyslog set, the report goes to both destinations; otherwise it
// stays on the stream log. Diagnosis is best-effort: unreadable procfs
// sources yield a report with empty sections, never an error.
func (m *Manager) Diagnose(path string, emitToSyslog bool) *procinfo.Report {
	report := procinfo.NewReport(path)
	m.emitReport(report, emitToSyslog)
	return report
}

// DiagnoseFd is the descriptor variant of Diagnose; filename is used only
// as a label.
func (m *Manager) DiagnoseFd(fd int, filename string, emitToSyslog bool) *procinfo.Report {
	report := procinfo.NewReportForFd(fd, filename)
	m.emitReport(report, emitToSyslog)
	return report
}

func (m *Manager) emitReport(report *procinfo.Report, emitToSyslog bool) {
	lines := report.Lines()
	if emitToSyslog {
		m.emitter.EmitLines(logging.SeverityWarning, lines)
		return
	}
	for _, line := range lines {
		m.log.Warnf("%s", line)
	}
}

// Diagnose runs Manager.Diagnose on the default manager.
func Diagnose(path string, emitToSyslog bool) *procinfo.Report {
	return defaultManager.Diagnose(path, emitToSyslog)
}
