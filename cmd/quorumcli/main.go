package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/quorum"
)

// commands is a register of all availables commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is an independent runable that is taking input and output
// being stdin and stdout. Given args are the command line arguments, without
// the program name, that should be parsed using the flag package.
// A command function is expected to read and write only to provided input and
// output. In a special case of an invalid argument a message to os.Stderr and
// os.Exit(2) call are allowed.
//
// Transactions are built, signed and submitted by separate commands that
// are combined into a pipeline:
//
//   $ quorumcli set-upgrade-authority -name token -authority 8A1B... \
//       | quorumcli as-proposal -multisig 1 \
//       | quorumcli sign -key owner.key \
//       | quorumcli submit
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"approve":               cmdApprove,
	"as-proposal":           cmdAsProposal,
	"create-multisig":       cmdCreateMultisig,
	"execute":               cmdExecute,
	"execute-all":           cmdExecuteAll,
	"keyaddr":               cmdKeyaddr,
	"keygen":                cmdKeygen,
	"list-proposals":        cmdListProposals,
	"register-program":      cmdRegisterProgram,
	"set-owners":            cmdSetOwners,
	"set-upgrade-authority": cmdSetUpgradeAuthority,
	"show-multisig":         cmdShowMultisig,
	"show-program":          cmdShowProgram,
	"show-transaction":      cmdShowTransaction,
	"sign":                  cmdSignTransaction,
	"submit":                cmdSubmitTransaction,
	"upgrade-program":       cmdUpgradeProgram,
	"version":               cmdVersion,
	"view":                  cmdTransactionView,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for the quorum multisig ledger.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, quorum.Version())
	return nil
}
