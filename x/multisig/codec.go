package multisig

import (
	"github.com/tendermint/go-amino"
)

// RegisterCodec registers all messages of this package, so that they can
// be carried by a transaction or wrapped in an instruction.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&CreateMsg{}, "multisig/CreateMsg", nil)
	c.RegisterConcrete(&ProposeMsg{}, "multisig/ProposeMsg", nil)
	c.RegisterConcrete(&ApproveMsg{}, "multisig/ApproveMsg", nil)
	c.RegisterConcrete(&ExecuteMsg{}, "multisig/ExecuteMsg", nil)
	c.RegisterConcrete(&SetOwnersMsg{}, "multisig/SetOwnersMsg", nil)
}
