package ast

type (
	NamespaceID uint32
	InterfaceID uint32
	MethodID    uint32
	ParamID     uint32
	EnumID      uint32
	ConstID     uint32
	CoclassID   uint32
)

const (
	NoNamespaceID NamespaceID = 0
	NoInterfaceID InterfaceID = 0
	NoMethodID    MethodID    = 0
	NoParamID     ParamID     = 0
	NoEnumID      EnumID      = 0
	NoConstID     ConstID     = 0
	NoCoclassID   CoclassID   = 0
)

func (id NamespaceID) IsValid() bool { return id != NoNamespaceID }
func (id InterfaceID) IsValid() bool { return id != NoInterfaceID }
func (id MethodID) IsValid() bool    { return id != NoMethodID }
func (id ParamID) IsValid() bool     { return id != NoParamID }
func (id EnumID) IsValid() bool      { return id != NoEnumID }
func (id ConstID) IsValid() bool     { return id != NoConstID }
func (id CoclassID) IsValid() bool   { return id != NoCoclassID }
