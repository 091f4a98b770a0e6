// Package config provides hierarchical configuration resolution.
//
// Layers, lowest to highest priority:
//  1. Built-in defaults
//  2. Global config (~/.config/hotfix/config.yaml)
//  3. Local config (.hotfix.yaml in the git root)
//  4. Environment variables (HOTFIX_<KEY>, plus NO_COLOR)
//  5. Command-line flags
//
// Each resolved value remembers which layer set it:
//
//	r := config.NewHotfixResolver(".", os.Stderr)
//	cfg := r.Resolve(map[string]string{config.KeyTrunk: flagTrunk})
//	fmt.Println(cfg.Get("trunk"), cfg.Source("trunk")) // "main default"
//
//	settings, err := config.LoadSettings(cfg)
//
// Credentials (github_token, gitlab_token, slack_webhook) are only read from
// the global file or the environment, never from the shared local file.
package config
