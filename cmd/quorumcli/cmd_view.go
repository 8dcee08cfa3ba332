package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/quorum"
	quorumd "github.com/iov-one/quorum/cmd/quorumd/app"
	"github.com/iov-one/quorum/orm"
	"github.com/iov-one/quorum/x/multisig"
	"github.com/iov-one/quorum/x/upgrade"
)

func cmdTransactionView(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Decode and display transaction summary. This command is helpful when reciving a
binary representation of a transaction. Before signing you should check what
kind of operation are you authorizing.

The instruction of a proposal is decoded as well.
`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return fmt.Errorf("cannot extract transaction message: %s", err)
	}

	view := struct {
		Path        string           `json:"path"`
		Msg         quorum.Msg       `json:"msg"`
		Instruction *instructionView `json:"instruction,omitempty"`
		Signers     []quorum.Address `json:"signers,omitempty"`
	}{
		Path: msg.Path(),
		Msg:  msg,
	}
	if p, ok := msg.(*multisig.ProposeMsg); ok {
		view.Instruction = newInstructionView(p.Instruction)
	}
	for _, sig := range tx.Signatures {
		view.Signers = append(view.Signers, sig.PubKey.Address())
	}
	return writeJSON(output, view)
}

type instructionView struct {
	Path string     `json:"path"`
	Msg  quorum.Msg `json:"msg,omitempty"`
	// Error is set when the payload cannot be decoded.
	Error string `json:"error,omitempty"`
}

func newInstructionView(ins multisig.Instruction) *instructionView {
	v := &instructionView{Path: ins.Path}
	msg, err := quorumd.DecodeInstruction(ins)
	if err != nil {
		v.Error = err.Error()
	} else {
		v.Msg = msg
	}
	return v
}

func cmdShowMultisig(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Display the current state of a multisig, together with the address of its
authority. Use that address to give the multisig control over a program.
`)
		fl.PrintDefaults()
	}
	var (
		idFl = flSeq(fl, "id", "", "ID of the multisig.")
	)
	newNode := nodeFlags(fl)
	fl.Parse(args)

	if len(*idFl) == 0 {
		flagDie("multisig ID is required")
	}
	m, err := fetchMultisig(newNode(), *idFl)
	if err != nil {
		return err
	}
	view := struct {
		ID              int64            `json:"id"`
		Owners          []quorum.Address `json:"owners"`
		Threshold       uint32           `json:"threshold"`
		OwnerSetVersion uint64           `json:"owner_set_version"`
		AuthorityNonce  uint32           `json:"authority_nonce"`
		Authority       quorum.Address   `json:"authority"`
	}{
		ID:              orm.DecodeSequence(*idFl),
		Owners:          m.Owners,
		Threshold:       m.Threshold,
		OwnerSetVersion: m.OwnerSetVersion,
		AuthorityNonce:  m.AuthorityNonce,
		Authority:       m.Authority(*idFl),
	}
	return writeJSON(output, view)
}

func cmdShowTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Display a multisig proposal: the decoded instruction, who approved it and
whether it can be executed.
`)
		fl.PrintDefaults()
	}
	var (
		proposalFl = fl.String("proposal", "", `Proposal ID, either "<multisig>/<proposal>" or hex encoded.`)
	)
	newNode := nodeFlags(fl)
	fl.Parse(args)

	id, err := unpackProposalID(*proposalFl)
	if err != nil {
		flagDie("invalid proposal: %s", err)
	}

	n := newNode()
	raw, err := n.Query("/proposals", id)
	if err != nil {
		return fmt.Errorf("cannot fetch proposal: %+v", err)
	}
	var p multisig.Proposal
	if err := p.Unmarshal(raw); err != nil {
		return fmt.Errorf("cannot decode proposal: %s", err)
	}
	m, err := fetchMultisig(n, p.MultisigID)
	if err != nil {
		return err
	}
	return writeJSON(output, newProposalView(id, &p, m))
}

func cmdListProposals(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
List all proposals of a multisig, one per line, in creation order. Each line
contains the proposal ID, its status, the instruction path and the number of
approvals. Executable proposal IDs can be piped into the execute-all command.
`)
		fl.PrintDefaults()
	}
	var (
		multisigFl = flSeq(fl, "multisig", "", "ID of the multisig.")
		statusFl   = fl.String("status", "", "Only list proposals with this status: pending, ready, executed or stale.")
	)
	newNode := nodeFlags(fl)
	fl.Parse(args)

	if len(*multisigFl) == 0 {
		flagDie("multisig ID is required")
	}

	n := newNode()
	m, err := fetchMultisig(n, *multisigFl)
	if err != nil {
		return err
	}
	raw, err := n.Query("/proposals/list", *multisigFl)
	if err != nil {
		return fmt.Errorf("cannot list proposals: %+v", err)
	}
	var list multisig.ProposalList
	if err := list.Unmarshal(raw); err != nil {
		return fmt.Errorf("cannot decode proposals: %s", err)
	}
	for _, item := range list.Items {
		status := item.Proposal.Status(m)
		if *statusFl != "" && string(status) != *statusFl {
			continue
		}
		fmt.Fprintf(output, "%s\t%s\t%s\t%d/%d\n",
			formatProposalID(item.ID), status, item.Proposal.Instruction.Path,
			item.Proposal.ApprovalCount(), m.Threshold)
	}
	return nil
}

func cmdShowProgram(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Display an upgradeable program: its authority, version and code hash.
`)
		fl.PrintDefaults()
	}
	var (
		nameFl = fl.String("name", "", "Name of the program.")
	)
	newNode := nodeFlags(fl)
	fl.Parse(args)

	if *nameFl == "" {
		flagDie("program name is required")
	}
	raw, err := newNode().Query("/programs", []byte(*nameFl))
	if err != nil {
		return fmt.Errorf("cannot fetch program: %+v", err)
	}
	var p upgrade.Program
	if err := p.Unmarshal(raw); err != nil {
		return fmt.Errorf("cannot decode program: %s", err)
	}
	view := struct {
		Name      string         `json:"name"`
		Authority quorum.Address `json:"authority"`
		Version   uint32         `json:"version"`
		CodeHash  string         `json:"code_hash"`
	}{
		Name:      p.Name,
		Authority: p.Authority,
		Version:   p.Version,
		CodeHash:  fmt.Sprintf("%x", p.CodeHash),
	}
	return writeJSON(output, view)
}

type proposalView struct {
	ID              string                  `json:"id"`
	Status          multisig.ProposalStatus `json:"status"`
	Instruction     *instructionView        `json:"instruction"`
	Proposer        quorum.Address          `json:"proposer"`
	Approvals       []approvalView          `json:"approvals"`
	ApprovalCount   int                     `json:"approval_count"`
	Threshold       uint32                  `json:"threshold"`
	OwnerSetVersion uint64                  `json:"owner_set_version"`
	CurrentVersion  uint64                  `json:"current_owner_set_version"`
	Executed        bool                    `json:"executed"`
}

type approvalView struct {
	Owner    quorum.Address `json:"owner,omitempty"`
	Approved bool           `json:"approved"`
}

func newProposalView(id []byte, p *multisig.Proposal, m *multisig.Multisig) proposalView {
	view := proposalView{
		ID:              formatProposalID(id),
		Status:          p.Status(m),
		Instruction:     newInstructionView(p.Instruction),
		Proposer:        p.Proposer,
		ApprovalCount:   p.ApprovalCount(),
		Threshold:       m.Threshold,
		OwnerSetVersion: p.OwnerSetVersion,
		CurrentVersion:  m.OwnerSetVersion,
		Executed:        p.Executed,
	}
	for i, ok := range p.Approvals {
		a := approvalView{Approved: ok}
		// Owners of a stale proposal are not known anymore.
		if !p.IsStale(m) && i < len(m.Owners) {
			a.Owner = m.Owners[i]
		}
		view.Approvals = append(view.Approvals, a)
	}
	return view
}

func fetchMultisig(n node, id []byte) (*multisig.Multisig, error) {
	raw, err := n.Query("/multisigs", id)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch multisig: %+v", err)
	}
	var m multisig.Multisig
	if err := m.Unmarshal(raw); err != nil {
		return nil, fmt.Errorf("cannot decode multisig: %s", err)
	}
	return &m, nil
}

func writeJSON(output io.Writer, v interface{}) error {
	pretty, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}
