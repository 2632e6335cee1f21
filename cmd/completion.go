package cmd

import (
	"fmt"

	"github.com/nibzard/brainfile-go/internal/config"
)

// completionCommand prints a completion script for the given shell.
func completionCommand(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: brainfile completion <bash|zsh|fish|powershell>")
	}
	switch args[0] {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	case "powershell", "pwsh":
		fmt.Print(powershellCompletion)
	default:
		return fmt.Errorf("unsupported shell: %s (expected bash, zsh, fish, or powershell)", args[0])
	}
	return nil
}

const bashCompletion = `# brainfile bash completion
_brainfile() {
    local cur prev commands
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    commands="init ls add move patch done restore subtask diff hash lint doctor watch ledger templates completion tui version help"

    case "${prev}" in
        subtask)
            COMPREPLY=( $(compgen -W "add toggle done" -- "${cur}") )
            return 0
            ;;
        ledger)
            COMPREPLY=( $(compgen -W "query history context" -- "${cur}") )
            return 0
            ;;
        templates)
            COMPREPLY=( $(compgen -W "list show apply" -- "${cur}") )
            return 0
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh fish powershell" -- "${cur}") )
            return 0
            ;;
    esac

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "${commands}" -- "${cur}") )
        return 0
    fi

    COMPREPLY=( $(compgen -f -- "${cur}") )
}
complete -F _brainfile brainfile
`

const zshCompletion = `#compdef brainfile
# brainfile zsh completion

_brainfile() {
    local -a commands
    commands=(
        'init:Create a starter board'
        'ls:Show the board'
        'add:Add a task'
        'move:Move a task to another column'
        'patch:Update task fields'
        'done:Complete a task'
        'restore:Bring a completed task back to the board'
        'subtask:Manage subtasks'
        'diff:Compare two boards'
        'hash:Print the board content hash'
        'lint:Check board syntax and structure'
        'doctor:Check workspace health'
        'watch:Watch for board changes'
        'ledger:Search completed task history'
        'templates:Work with task templates'
        'completion:Output shell completion script'
        'tui:Launch terminal UI'
        'version:Show version information'
        'help:Show help'
    )

    if (( CURRENT == 2 )); then
        _describe 'command' commands
    else
        case "${words[2]}" in
            subtask)
                _values 'operation' add toggle done
                ;;
            ledger)
                _values 'operation' query history context
                ;;
            templates)
                _values 'operation' list show apply
                ;;
            completion)
                _values 'shell' bash zsh fish powershell
                ;;
            *)
                _files
                ;;
        esac
    fi
}

_brainfile "$@"
`

const fishCompletion = `# brainfile fish completion
complete -c brainfile -f
complete -c brainfile -n '__fish_use_subcommand' -a init -d 'Create a starter board'
complete -c brainfile -n '__fish_use_subcommand' -a ls -d 'Show the board'
complete -c brainfile -n '__fish_use_subcommand' -a add -d 'Add a task'
complete -c brainfile -n '__fish_use_subcommand' -a move -d 'Move a task to another column'
complete -c brainfile -n '__fish_use_subcommand' -a patch -d 'Update task fields'
complete -c brainfile -n '__fish_use_subcommand' -a done -d 'Complete a task'
complete -c brainfile -n '__fish_use_subcommand' -a restore -d 'Bring a completed task back to the board'
complete -c brainfile -n '__fish_use_subcommand' -a subtask -d 'Manage subtasks'
complete -c brainfile -n '__fish_use_subcommand' -a diff -d 'Compare two boards'
complete -c brainfile -n '__fish_use_subcommand' -a hash -d 'Print the board content hash'
complete -c brainfile -n '__fish_use_subcommand' -a lint -d 'Check board syntax and structure'
complete -c brainfile -n '__fish_use_subcommand' -a doctor -d 'Check workspace health'
complete -c brainfile -n '__fish_use_subcommand' -a watch -d 'Watch for board changes'
complete -c brainfile -n '__fish_use_subcommand' -a ledger -d 'Search completed task history'
complete -c brainfile -n '__fish_use_subcommand' -a templates -d 'Work with task templates'
complete -c brainfile -n '__fish_use_subcommand' -a completion -d 'Output shell completion script'
complete -c brainfile -n '__fish_use_subcommand' -a tui -d 'Launch terminal UI'
complete -c brainfile -n '__fish_use_subcommand' -a version -d 'Show version information'
complete -c brainfile -n '__fish_use_subcommand' -a help -d 'Show help'
complete -c brainfile -n '__fish_seen_subcommand_from subtask' -a 'add toggle done'
complete -c brainfile -n '__fish_seen_subcommand_from ledger' -a 'query history context'
complete -c brainfile -n '__fish_seen_subcommand_from templates' -a 'list show apply'
complete -c brainfile -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish powershell'
`

const powershellCompletion = `# brainfile PowerShell completion
Register-ArgumentCompleter -Native -CommandName brainfile -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)
    $commands = @('init', 'ls', 'add', 'move', 'patch', 'done', 'restore', 'subtask', 'diff', 'hash', 'lint', 'doctor', 'watch', 'ledger', 'templates', 'completion', 'tui', 'version', 'help')
    $commands | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
    }
}
`
