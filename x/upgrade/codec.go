package upgrade

import (
	"github.com/tendermint/go-amino"
)

// RegisterCodec registers all messages of this package.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&RegisterMsg{}, "upgrade/RegisterMsg", nil)
	c.RegisterConcrete(&SetAuthorityMsg{}, "upgrade/SetAuthorityMsg", nil)
	c.RegisterConcrete(&UpgradeMsg{}, "upgrade/UpgradeMsg", nil)
}
