package expr

func (l *LiteralNode) NodeCount() int  { return 1 }
func (c *ConstantNode) NodeCount() int { return 1 }
func (f *FuncNode) NodeCount() int     { return 1 + f.Arg.NodeCount() }
func (f *FactorialNode) NodeCount() int {
	return 1 + f.Child.NodeCount()
}
func (n *NegateNode) NodeCount() int { return 1 + n.Child.NodeCount() }
func (b *BinaryNode) NodeCount() int {
	return 1 + b.Left.NodeCount() + b.Right.NodeCount()
}

func (l *LiteralNode) Depth() int   { return 1 }
func (c *ConstantNode) Depth() int  { return 1 }
func (f *FuncNode) Depth() int      { return 1 + f.Arg.Depth() }
func (f *FactorialNode) Depth() int { return 1 + f.Child.Depth() }
func (n *NegateNode) Depth() int    { return 1 + n.Child.Depth() }
func (b *BinaryNode) Depth() int {
	ld := b.Left.Depth()
	rd := b.Right.Depth()
	if ld > rd {
		return 1 + ld
	}
	return 1 + rd
}
