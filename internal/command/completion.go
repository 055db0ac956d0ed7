// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/snapdiff/internal/meta"
)

const bashCompletionScript = `# bash completion for snapdiff
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_snapdiff()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "diff delta completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--color -c --ignore -i --root -r --s3-profile --s3-region --s3-endpoint --s3-path-style"

    case "$cmd" in
        diff)
            local opts="$common --exit-code --output -o --padding -p --titles -t --zone -z"
            ;;
        delta)
            local opts="$common --exit-code"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
        return 0
    fi

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Snapshots are files or a directory of them.
    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _snapdiff snapdiff
`

const zshCompletionScript = `#compdef snapdiff

_snapdiff() {
  local -a cmds
  cmds=(
    'diff:diff metadata and candidates of two snapshots'
    'delta:show every difference between two whole snapshots'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-i --ignore)'{-i,--ignore}'[metadata fields to skip]:fields'
  '(-r --root)'{-r,--root}'[dot path of the snapshot]:path'
  '--s3-profile[AWS profile]:profile'
  '--s3-region[AWS region]:region'
  '--s3-endpoint[S3 endpoint URL]:url'
  '--s3-path-style[path-style S3 addressing]'
  '--exit-code[exit 3 when snapshots differ]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'snapdiff commands' cmds
    return
  fi

  case $words[2] in
    diff)
      _arguments -C \
        $common \
        '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)' \
        '(-p --padding)'{-p,--padding}'[column padding]:padding' \
        '(-t --titles)'{-t,--titles}'[show titles]' \
        '(-z --zone)'{-z,--zone}'[time zone]:zone' \
        '*:snapshot:_files'
      ;;
    delta)
      _arguments -C \
        $common \
        '*:snapshot:_files'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _snapdiff snapdiff
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		return fmt.Errorf("usage: snapdiff completion [bash|zsh]")
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "snapdiff completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
