package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

// Badges shown in the player header depending on deployment mode.
const (
	offlineBadge = "🇮🇷 Iranian Production Ready - Fully Offline"
	onlineBadge  = "🔗 Development Mode - Online Required"
)

var playerTemplate = template.Must(template.New("player").Funcs(template.FuncMap{
	"base": filepath.Base,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: 'Segoe UI', sans-serif; background: linear-gradient(135deg, #667eea, #764ba2); margin: 0; padding: 20px; }
        .container { max-width: 900px; margin: 0 auto; }
        .header { background: white; border-radius: 15px; padding: 25px; text-align: center; margin-bottom: 20px; }
        .deployment-badge { display: inline-block; padding: 8px 20px; border-radius: 20px; background: {{if .IsOfflineCompatible}}#2e7d32{{else}}#ef6c00{{end}}; color: white; font-weight: bold; }
        .engine-info { background: rgba(255,255,255,0.9); border-radius: 10px; padding: 15px; margin-bottom: 20px; }
        .controls { text-align: center; margin-bottom: 20px; }
        .play-button { padding: 12px 30px; border: none; border-radius: 25px; background: #333; color: white; font-size: 16px; cursor: pointer; margin: 5px; }
        .segment { background: white; border-radius: 15px; padding: 20px; margin-bottom: 15px; }
        .speaker-label { font-weight: bold; margin-bottom: 10px; }
        .voice-info { font-size: 0.9em; color: #666; font-style: italic; }
        .text { margin: 15px 0; line-height: 1.6; }
        .audio-player { width: 100%; }
        .progress-bar { background: rgba(102,126,234,0.2); height: 4px; border-radius: 2px; margin: 20px 0; }
        .progress-fill { background: #667eea; height: 100%; width: 0%; transition: width 0.3s ease; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>🎧 {{.Title}}</h1>
            <div class="deployment-badge">{{if .IsOfflineCompatible}}` + offlineBadge + `{{else}}` + onlineBadge + `{{end}}</div>
        </div>

        <div class="engine-info">
            <h3>🎤 TTS Engine: {{.EngineUsed}}</h3>
            <p>{{if .IsOfflineCompatible}}✅ Fully self-hosted and offline compatible{{else}}⚠️ Requires internet connection{{end}}</p>
        </div>

        <div class="controls">
            <button class="play-button" onclick="playFullConversation()">▶️ Play Complete Test</button>
            <button class="play-button" onclick="pauseAll()">⏸️ Pause All</button>
            <div class="progress-bar"><div class="progress-fill" id="progressFill"></div></div>
        </div>

        <div class="conversation">
{{- range .Segments}}
            <div class="segment">
                <div class="speaker-label">{{.Speaker}}</div>
                <div class="voice-info">{{.VoiceUsed}} ({{.EngineUsed}})</div>
                <div class="text">{{.Text}}</div>
                <audio class="audio-player" controls preload="metadata" id="audio-{{.SegmentID}}">
                    <source src="{{base .File}}" type="audio/wav">
                    Your browser does not support the audio element.
                </audio>
            </div>
{{- end}}
        </div>
    </div>

    <script>
        let currentIndex = 0;
        const audioElements = document.querySelectorAll('audio');
        const progressFill = document.getElementById('progressFill');

        function playFullConversation() {
            currentIndex = 0;
            updateProgress(0);
            playNext();
        }

        function playNext() {
            if (currentIndex < audioElements.length) {
                const audio = audioElements[currentIndex];
                audio.currentTime = 0;
                audio.closest('.segment').scrollIntoView({ behavior: 'smooth', block: 'center' });
                audio.play();
                audio.onended = () => {
                    currentIndex++;
                    updateProgress((currentIndex / audioElements.length) * 100);
                    setTimeout(() => {
                        playNext();
                    }, 1200); // Natural conversation pause
                };
            } else {
                updateProgress(100);
            }
        }

        function pauseAll() {
            audioElements.forEach(audio => audio.pause());
        }

        function updateProgress(percentage) {
            progressFill.style.width = percentage + '%';
        }

        audioElements.forEach((audio, index) => {
            audio.addEventListener('play', () => {
                audioElements.forEach((otherAudio, otherIndex) => {
                    if (otherIndex !== index) {
                        otherAudio.pause();
                    }
                });
            });
        });
    </script>
</body>
</html>
`))

// WriteHTML renders the playable report next to the audio files.
func WriteHTML(path string, m *Metadata) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create html player: %w", err)
	}
	defer f.Close()

	if err := playerTemplate.Execute(f, m); err != nil {
		return fmt.Errorf("render html player: %w", err)
	}
	return nil
}
