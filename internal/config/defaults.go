package config

// PlaceholderAPIKey is the value shipped in the sample config. It is treated
// the same as an empty key.
const PlaceholderAPIKey = "your_openai_api_key"

const (
	defaultDataDir                      = "~/.local/share/cliptag"
	defaultAPIBind                      = "127.0.0.1:5000"
	defaultAIBaseURL                    = "https://api.openai.com/v1"
	defaultTranscriptionModel           = "whisper-1"
	defaultChatModel                    = "gpt-3.5-turbo"
	defaultAITimeoutSeconds             = 60
	defaultAIMaxFileMiB                 = 25
	defaultFilenameRandomKeyProbability = 0.3
	defaultExtraTagProbability          = 0.3
	defaultRandomKeyProbability         = 0.5
	defaultExtension                    = ".wav"
	defaultFFprobeBinary                = "ffprobe"
	defaultMaxUploadMiB                 = 10
	defaultLogFormat                    = "console"
	defaultLogLevel                     = "info"
)

// Default returns a Config populated with repository defaults. UploadDir and
// LogDir stay empty so normalization derives them from DataDir.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			APIBind: defaultAPIBind,
		},
		AI: AI{
			Enabled:            true,
			BaseURL:            defaultAIBaseURL,
			TranscriptionModel: defaultTranscriptionModel,
			ChatModel:          defaultChatModel,
			TimeoutSeconds:     defaultAITimeoutSeconds,
			MaxFileMiB:         defaultAIMaxFileMiB,
		},
		Analysis: Analysis{
			SimulateVariability:          true,
			FilenameRandomKeyProbability: defaultFilenameRandomKeyProbability,
			ExtraTagProbability:          defaultExtraTagProbability,
			RandomKeyProbability:         defaultRandomKeyProbability,
			DefaultExtension:             defaultExtension,
		},
		Probe: Probe{
			FFprobeBinary: defaultFFprobeBinary,
		},
		Library: Library{
			MaxUploadMiB:    defaultMaxUploadMiB,
			ValidateOnStart: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
