package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/emotion"
)

// Report is the JSON written by Export.
type Report struct {
	ReportID    string    `json:"report_id"`
	SessionID   string    `json:"session_id"`
	Backend     string    `json:"backend"`
	GeneratedAt time.Time `json:"generated_at"`
	// Charts maps each modality to its PNG, relative to the report.
	Charts map[string]string `json:"charts"`
	Snapshot
}

func mkSessionDir(outputsRoot string, now time.Time) (string, string, error) {
	sid := "session_" + now.Format("20060102-150405")
	dir := filepath.Join(outputsRoot, sid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	return sid, dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Export writes the current snapshot under outputsRoot/session_<ts>/ as
// report.json plus one PNG chart per modality, and returns the report path.
// Only explicit exports touch disk.
func (p *Pipeline) Export(outputsRoot string) (string, error) {
	if outputsRoot == "" {
		outputsRoot = p.cfg.Paths.Outputs
	}
	snap := p.Snapshot()
	sid, dir, err := mkSessionDir(outputsRoot, snap.TakenAt)
	if err != nil {
		return "", err
	}

	charts := []struct {
		name, title string
		classes     []emotion.Class
		values      emotion.DisplayVector
	}{
		{"face", "Facial emotion", emotion.FaceClasses, snap.Camera.Chart},
		{"voice", "Voice emotion", emotion.FaceClasses, snap.Voice.Chart},
		{"text", "Text sentiment", emotion.TextClasses, snap.Text.Chart},
	}
	files := make(map[string]string, len(charts))
	for _, c := range charts {
		name := c.name + ".png"
		if err := writeBarChart(filepath.Join(dir, name), c.title, c.classes, c.values); err != nil {
			return "", err
		}
		files[c.name] = name
	}

	path := filepath.Join(dir, "report.json")
	rep := Report{
		ReportID:    uuid.NewString(),
		SessionID:   sid,
		Backend:     p.http.BaseURL(),
		GeneratedAt: snap.TakenAt,
		Charts:      files,
		Snapshot:    snap,
	}
	if err := writeJSON(path, rep); err != nil {
		return "", err
	}
	p.log.WithField("path", path).Info("report exported")
	return path, nil
}
