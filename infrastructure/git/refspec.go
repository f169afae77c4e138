package git

import (
	"fmt"

	"github.com/go-git/go-git/v5/config"
	"github.com/helixml/gitclone/domain/clone"
)

// fetchRefspec returns the refspec passed to "git fetch origin" for target.
// Tags are stored under refs/tags so the checkout can resolve them. Commit
// and None targets fetch the remote's default refspec, so ok is false.
func fetchRefspec(target clone.Target) (refspec string, ok bool) {
	switch target.Kind() {
	case clone.TargetPullRequest:
		return fmt.Sprintf("pull/%s/merge:%s", target.Value(), target.Ref()), true
	case clone.TargetTag:
		return fmt.Sprintf("refs/tags/%s:refs/tags/%s", target.Value(), target.Value()), true
	case clone.TargetBranch:
		return target.Value(), true
	default:
		return "", false
	}
}

// goGitRefSpecs returns the fully qualified refspecs go-git fetches for
// target. A nil result fetches the remote's configured refspecs.
func goGitRefSpecs(target clone.Target) []config.RefSpec {
	switch target.Kind() {
	case clone.TargetPullRequest:
		return []config.RefSpec{
			config.RefSpec(fmt.Sprintf("+refs/pull/%s/merge:refs/heads/%s", target.Value(), target.Ref())),
		}
	case clone.TargetTag:
		return []config.RefSpec{
			config.RefSpec(fmt.Sprintf("+refs/tags/%s:refs/tags/%s", target.Value(), target.Value())),
		}
	case clone.TargetBranch:
		return []config.RefSpec{
			config.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", target.Value(), DefaultRemote, target.Value())),
		}
	default:
		return nil
	}
}
