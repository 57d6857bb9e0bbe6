package ast

type NodeType string

const (
	NodeProgram            NodeType = "Program"
	NodeIdentifier         NodeType = "Identifier"
	NodeIntegerLiteral     NodeType = "IntegerLiteral"
	NodeFloatLiteral       NodeType = "FloatLiteral"
	NodeStringLiteral      NodeType = "StringLiteral"
	NodeInterpolatedString NodeType = "InterpolatedString"
	NodeBooleanLiteral     NodeType = "BooleanLiteral"
	NodeNullLiteral        NodeType = "NullLiteral"
	NodeListLiteral        NodeType = "ListLiteral"
	NodeMapLiteral         NodeType = "MapLiteral"
	NodeMapEntry           NodeType = "MapEntry"
	NodeUnaryExpression    NodeType = "UnaryExpression"
	NodeBinaryExpression   NodeType = "BinaryExpression"
	NodeFieldAccess        NodeType = "FieldAccess"
	NodeIndexExpression    NodeType = "IndexExpression"
	NodeCallExpression     NodeType = "CallExpression"
	NodeMethodCall         NodeType = "MethodCall"
	NodePipeExpression     NodeType = "PipeExpression"
	NodeLambdaExpression   NodeType = "LambdaExpression"
	NodeMatchExpression    NodeType = "MatchExpression"
	NodeMatchClause        NodeType = "MatchClause"
	NodeCoalesceExpression NodeType = "CoalesceExpression"
	NodeSpawnExpression    NodeType = "SpawnExpression"
	NodeAwaitExpression    NodeType = "AwaitExpression"
	NodeParameter          NodeType = "Parameter"
	NodeLetStatement       NodeType = "LetStatement"
	NodeAssignStatement    NodeType = "AssignStatement"
	NodeIfStatement        NodeType = "IfStatement"
	NodeWhileStatement     NodeType = "WhileStatement"
	NodeForStatement       NodeType = "ForStatement"
	NodeFunctionDecl       NodeType = "FunctionDecl"
	NodePipelineDecl       NodeType = "PipelineDecl"
	NodeReturnStatement    NodeType = "ReturnStatement"
	NodeBreakStatement     NodeType = "BreakStatement"
	NodeContinueStatement  NodeType = "ContinueStatement"
	NodeGuardStatement     NodeType = "GuardStatement"
	NodeUseStatement       NodeType = "UseStatement"
	NodeTryExpression      NodeType = "TryExpression"
	NodeBlockStatement     NodeType = "BlockStatement"
	NodeWildcardPattern    NodeType = "WildcardPattern"
	NodeLiteralPattern     NodeType = "LiteralPattern"
	NodeBindingPattern     NodeType = "BindingPattern"
	NodeListPattern        NodeType = "ListPattern"
	NodeMapPattern         NodeType = "MapPattern"
)

// Node is implemented by every AST node. Nodes are immutable after the
// parser finishes with them; the evaluator never writes back into the tree.
type Node interface {
	NodeType() NodeType
	Pos() (line, column int)
	SetPos(line, column int)
	isNode()
}

type nodeImpl struct {
	Type   NodeType `json:"type"`
	Line   int      `json:"line"`
	Column int      `json:"column"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n *nodeImpl) NodeType() NodeType { return n.Type }

func (n *nodeImpl) Pos() (int, int) { return n.Line, n.Column }

func (n *nodeImpl) SetPos(line, column int) { n.Line, n.Column = line, column }

func (*nodeImpl) isNode() {}

// Marker interfaces.
//
// Every Expression is also a Statement, so expression statements need no
// wrapper node: the statement evaluator falls through to the expression
// evaluator for anything that is not a concrete statement variant.

type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Pattern interface {
	Node
	patternNode()
}

type patternMarker struct{}

func (patternMarker) patternNode() {}

// Program

type Program struct {
	nodeImpl

	Statements []Statement `json:"statements"`
}

func NewProgram(statements []Statement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Statements: statements}
}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type FloatLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value float64 `json:"value"`
}

func NewFloatLiteral(value float64) *FloatLiteral {
	return &FloatLiteral{nodeImpl: newNodeImpl(NodeFloatLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

// InterpolatedString holds the ordered parts of a `"a {b} c"` literal:
// StringLiteral nodes for raw text and arbitrary expressions for the
// interpolated segments.
type InterpolatedString struct {
	nodeImpl
	expressionMarker
	statementMarker

	Parts []Expression `json:"parts"`
}

func NewInterpolatedString(parts []Expression) *InterpolatedString {
	return &InterpolatedString{nodeImpl: newNodeImpl(NodeInterpolatedString), Parts: parts}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type NullLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
}

func NewNullLiteral() *NullLiteral {
	return &NullLiteral{nodeImpl: newNodeImpl(NodeNullLiteral)}
}

type ListLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Elements []Expression `json:"elements"`
}

func NewListLiteral(elements []Expression) *ListLiteral {
	return &ListLiteral{nodeImpl: newNodeImpl(NodeListLiteral), Elements: elements}
}

type MapEntry struct {
	nodeImpl

	Key   string     `json:"key"`
	Value Expression `json:"value"`
}

func NewMapEntry(key string, value Expression) *MapEntry {
	return &MapEntry{nodeImpl: newNodeImpl(NodeMapEntry), Key: key, Value: value}
}

type MapLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Entries []*MapEntry `json:"entries"`
}

func NewMapLiteral(entries []*MapEntry) *MapLiteral {
	return &MapLiteral{nodeImpl: newNodeImpl(NodeMapLiteral), Entries: entries}
}

// Operators

type UnaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Operand  Expression `json:"operand"`
}

func NewUnaryExpression(operator string, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// Access & invocation

type FieldAccess struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression  `json:"object"`
	Field  *Identifier `json:"field"`
}

func NewFieldAccess(object Expression, field *Identifier) *FieldAccess {
	return &FieldAccess{nodeImpl: newNodeImpl(NodeFieldAccess), Object: object, Field: field}
}

type IndexExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
}

func NewIndexExpression(object, index Expression) *IndexExpression {
	return &IndexExpression{nodeImpl: newNodeImpl(NodeIndexExpression), Object: object, Index: index}
}

type CallExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewCallExpression(callee Expression, arguments []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Arguments: arguments}
}

// MethodCall is `recv.name(args)`. Receiver is nil only for the leading-dot
// form `.name(args)`, which the parser accepts exclusively as a pipe stage;
// the pipe engine supplies the current value as the receiver.
type MethodCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Receiver  Expression   `json:"receiver,omitempty"`
	Method    *Identifier  `json:"method"`
	Arguments []Expression `json:"arguments"`
}

func NewMethodCall(receiver Expression, method *Identifier, arguments []Expression) *MethodCall {
	return &MethodCall{nodeImpl: newNodeImpl(NodeMethodCall), Receiver: receiver, Method: method, Arguments: arguments}
}

// PipeExpression is a flattened `a |> f |> g(x)` chain. Stages[0] is the
// initial value; later stages are applied left to right.
type PipeExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Stages []Expression `json:"stages"`
}

func NewPipeExpression(stages []Expression) *PipeExpression {
	return &PipeExpression{nodeImpl: newNodeImpl(NodePipeExpression), Stages: stages}
}

// Callables

type Parameter struct {
	nodeImpl

	Name     *Identifier `json:"name"`
	TypeName *Identifier `json:"typeName,omitempty"`
	Default  Expression  `json:"default,omitempty"`
}

func NewParameter(name *Identifier, typeName *Identifier, def Expression) *Parameter {
	return &Parameter{nodeImpl: newNodeImpl(NodeParameter), Name: name, TypeName: typeName, Default: def}
}

type LambdaExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Params []*Parameter `json:"params"`
	Body   Expression   `json:"body"`
}

func NewLambdaExpression(params []*Parameter, body Expression) *LambdaExpression {
	return &LambdaExpression{nodeImpl: newNodeImpl(NodeLambdaExpression), Params: params, Body: body}
}

// Match

type MatchClause struct {
	nodeImpl

	Pattern Pattern    `json:"pattern"`
	Guard   Expression `json:"guard,omitempty"`
	Body    Statement  `json:"body"`
}

func NewMatchClause(pattern Pattern, guard Expression, body Statement) *MatchClause {
	return &MatchClause{nodeImpl: newNodeImpl(NodeMatchClause), Pattern: pattern, Guard: guard, Body: body}
}

type MatchExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Subject Expression     `json:"subject"`
	Clauses []*MatchClause `json:"clauses"`
}

func NewMatchExpression(subject Expression, clauses []*MatchClause) *MatchExpression {
	return &MatchExpression{nodeImpl: newNodeImpl(NodeMatchExpression), Subject: subject, Clauses: clauses}
}

// CoalesceExpression is `left ?? right`; right is evaluated only when left
// is null.
type CoalesceExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Left  Expression `json:"left"`
	Right Expression `json:"right"`
}

func NewCoalesceExpression(left, right Expression) *CoalesceExpression {
	return &CoalesceExpression{nodeImpl: newNodeImpl(NodeCoalesceExpression), Left: left, Right: right}
}

// Concurrency

type SpawnExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Body *BlockStatement `json:"body"`
}

func NewSpawnExpression(body *BlockStatement) *SpawnExpression {
	return &SpawnExpression{nodeImpl: newNodeImpl(NodeSpawnExpression), Body: body}
}

type AwaitExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value Expression `json:"value"`
}

func NewAwaitExpression(value Expression) *AwaitExpression {
	return &AwaitExpression{nodeImpl: newNodeImpl(NodeAwaitExpression), Value: value}
}

// Statements

// LetStatement covers both plain declaration (`let x = e`, Target is a
// BindingPattern) and destructuring (`let [a, b] = e`, `let {k} = e`).
type LetStatement struct {
	nodeImpl
	statementMarker

	Target Pattern    `json:"target"`
	Value  Expression `json:"value"`
}

func NewLetStatement(target Pattern, value Expression) *LetStatement {
	return &LetStatement{nodeImpl: newNodeImpl(NodeLetStatement), Target: target, Value: value}
}

// AssignStatement mutates an existing binding, list slot, or map key.
// Target is an Identifier, IndexExpression, or FieldAccess.
type AssignStatement struct {
	nodeImpl
	statementMarker

	Target Expression `json:"target"`
	Value  Expression `json:"value"`
}

func NewAssignStatement(target, value Expression) *AssignStatement {
	return &AssignStatement{nodeImpl: newNodeImpl(NodeAssignStatement), Target: target, Value: value}
}

// IfStatement: `elif` chains are parsed as an IfStatement in the Else slot.
type IfStatement struct {
	nodeImpl
	statementMarker

	Cond Expression      `json:"cond"`
	Then *BlockStatement `json:"then"`
	Else Statement       `json:"else,omitempty"`
}

func NewIfStatement(cond Expression, then *BlockStatement, els Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Cond: cond, Then: then, Else: els}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Cond Expression      `json:"cond"`
	Body *BlockStatement `json:"body"`
}

func NewWhileStatement(cond Expression, body *BlockStatement) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Cond: cond, Body: body}
}

type ForStatement struct {
	nodeImpl
	statementMarker

	Name     *Identifier     `json:"name"`
	Iterable Expression      `json:"iterable"`
	Body     *BlockStatement `json:"body"`
}

func NewForStatement(name *Identifier, iterable Expression, body *BlockStatement) *ForStatement {
	return &ForStatement{nodeImpl: newNodeImpl(NodeForStatement), Name: name, Iterable: iterable, Body: body}
}

type FunctionDecl struct {
	nodeImpl
	statementMarker

	Name   *Identifier     `json:"name"`
	Params []*Parameter    `json:"params"`
	Body   *BlockStatement `json:"body"`
}

func NewFunctionDecl(name *Identifier, params []*Parameter, body *BlockStatement) *FunctionDecl {
	return &FunctionDecl{nodeImpl: newNodeImpl(NodeFunctionDecl), Name: name, Params: params, Body: body}
}

// PipelineDecl declares a function whose every invocation is traced.
type PipelineDecl struct {
	nodeImpl
	statementMarker

	Name   *Identifier     `json:"name"`
	Params []*Parameter    `json:"params"`
	Body   *BlockStatement `json:"body"`
}

func NewPipelineDecl(name *Identifier, params []*Parameter, body *BlockStatement) *PipelineDecl {
	return &PipelineDecl{nodeImpl: newNodeImpl(NodePipelineDecl), Name: name, Params: params, Body: body}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value,omitempty"`
}

func NewReturnStatement(value Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Value: value}
}

type BreakStatement struct {
	nodeImpl
	statementMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}

type GuardStatement struct {
	nodeImpl
	statementMarker

	Cond    Expression `json:"cond"`
	Message Expression `json:"message,omitempty"`
}

func NewGuardStatement(cond, message Expression) *GuardStatement {
	return &GuardStatement{nodeImpl: newNodeImpl(NodeGuardStatement), Cond: cond, Message: message}
}

type UseStatement struct {
	nodeImpl
	statementMarker

	Name *Identifier `json:"name"`
}

func NewUseStatement(name *Identifier) *UseStatement {
	return &UseStatement{nodeImpl: newNodeImpl(NodeUseStatement), Name: name}
}

// TryExpression evaluates its body; any failure raised inside is caught by
// the rescue block (which may bind the failure's text description) and the
// ensure block always runs on the way out. Usable in statement position
// like any expression.
type TryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Body       *BlockStatement `json:"body"`
	RescueName *Identifier     `json:"rescueName,omitempty"`
	Rescue     *BlockStatement `json:"rescue,omitempty"`
	Ensure     *BlockStatement `json:"ensure,omitempty"`
}

func NewTryExpression(body *BlockStatement, rescueName *Identifier, rescue, ensure *BlockStatement) *TryExpression {
	return &TryExpression{nodeImpl: newNodeImpl(NodeTryExpression), Body: body, RescueName: rescueName, Rescue: rescue, Ensure: ensure}
}

type BlockStatement struct {
	nodeImpl
	statementMarker

	Statements []Statement `json:"statements"`
}

func NewBlockStatement(statements []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Statements: statements}
}

// Patterns

type WildcardPattern struct {
	nodeImpl
	patternMarker
}

func NewWildcardPattern() *WildcardPattern {
	return &WildcardPattern{nodeImpl: newNodeImpl(NodeWildcardPattern)}
}

type LiteralPattern struct {
	nodeImpl
	patternMarker

	Value Expression `json:"value"`
}

func NewLiteralPattern(value Expression) *LiteralPattern {
	return &LiteralPattern{nodeImpl: newNodeImpl(NodeLiteralPattern), Value: value}
}

type BindingPattern struct {
	nodeImpl
	patternMarker

	Name *Identifier `json:"name"`
}

func NewBindingPattern(name *Identifier) *BindingPattern {
	return &BindingPattern{nodeImpl: newNodeImpl(NodeBindingPattern), Name: name}
}

// ListPattern matches a list element-wise. With Rest set it matches any
// list at least as long as Elements and binds the remaining suffix, which
// may be empty, under the rest name.
type ListPattern struct {
	nodeImpl
	patternMarker

	Elements []Pattern   `json:"elements"`
	Rest     *Identifier `json:"rest,omitempty"`
}

func NewListPattern(elements []Pattern, rest *Identifier) *ListPattern {
	return &ListPattern{nodeImpl: newNodeImpl(NodeListPattern), Elements: elements, Rest: rest}
}

// MapPattern matches a map containing every named key and binds each key's
// value under the key's own name.
type MapPattern struct {
	nodeImpl
	patternMarker

	Keys []*Identifier `json:"keys"`
}

func NewMapPattern(keys []*Identifier) *MapPattern {
	return &MapPattern{nodeImpl: newNodeImpl(NodeMapPattern), Keys: keys}
}
