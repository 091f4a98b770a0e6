// Package message resolves commit messages and renders the text templates
// used for fallback messages and PR bodies.
//
// Templates are looked up in override directories first and fall back to
// the defaults embedded in the binary:
//
//	commit-fallback.txt  Hotfix: automated changes ({{.Timestamp}})
//	pr-body.txt          body of the pull request
//
// Example usage:
//
//	r := &message.Resolver{
//	    Generator: message.NewCommandGenerator(runner, dir, "aicommit"),
//	    Templates: message.NewLoader(".hotfix/templates"),
//	}
//	suggestion, err := r.Suggest(ctx, message.VarsAt(time.Now()))
package message
