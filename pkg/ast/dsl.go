package ast

// Compact builders for constructing trees in tests and host tooling.
// They accept loosely typed arguments (string or *Identifier) where that
// keeps call sites short, and panic on misuse: builder calls are authored
// by hand, not driven by user input.

func ID(name string) *Identifier { return NewIdentifier(name) }

func Int(value int64) *IntegerLiteral { return NewIntegerLiteral(value) }

func Float(value float64) *FloatLiteral { return NewFloatLiteral(value) }

func Str(value string) *StringLiteral { return NewStringLiteral(value) }

func Bool(value bool) *BooleanLiteral { return NewBooleanLiteral(value) }

func Null() *NullLiteral { return NewNullLiteral() }

func List(elements ...Expression) *ListLiteral { return NewListLiteral(elements) }

func Entry(key string, value Expression) *MapEntry { return NewMapEntry(key, value) }

func Map(entries ...*MapEntry) *MapLiteral { return NewMapLiteral(entries) }

func Interp(parts ...Expression) *InterpolatedString { return NewInterpolatedString(parts) }

func Un(operator string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(operator, operand)
}

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func Field(object Expression, field string) *FieldAccess {
	return NewFieldAccess(object, ID(field))
}

func Index(object, index Expression) *IndexExpression { return NewIndexExpression(object, index) }

func Call(callee interface{}, args ...Expression) *CallExpression {
	return NewCallExpression(exprFrom(callee), args)
}

func Method(receiver Expression, name string, args ...Expression) *MethodCall {
	return NewMethodCall(receiver, ID(name), args)
}

func Pipe(stages ...Expression) *PipeExpression { return NewPipeExpression(stages) }

func Param(name string, typeName string, def Expression) *Parameter {
	var tn *Identifier
	if typeName != "" {
		tn = ID(typeName)
	}
	return NewParameter(ID(name), tn, def)
}

func Lambda(params []*Parameter, body Expression) *LambdaExpression {
	return NewLambdaExpression(params, body)
}

func Clause(pattern Pattern, guard Expression, body Statement) *MatchClause {
	return NewMatchClause(pattern, guard, body)
}

func Match(subject Expression, clauses ...*MatchClause) *MatchExpression {
	return NewMatchExpression(subject, clauses)
}

func Coalesce(left, right Expression) *CoalesceExpression { return NewCoalesceExpression(left, right) }

func Spawn(statements ...Statement) *SpawnExpression {
	return NewSpawnExpression(Block(statements...))
}

func Await(value Expression) *AwaitExpression { return NewAwaitExpression(value) }

func Prog(statements ...Statement) *Program { return NewProgram(statements) }

func Let(name interface{}, value Expression) *LetStatement {
	return NewLetStatement(patternFrom(name), value)
}

func Assign(target interface{}, value Expression) *AssignStatement {
	return NewAssignStatement(exprFrom(target), value)
}

func If(cond Expression, then *BlockStatement, els Statement) *IfStatement {
	return NewIfStatement(cond, then, els)
}

func While(cond Expression, body ...Statement) *WhileStatement {
	return NewWhileStatement(cond, Block(body...))
}

func For(name string, iterable Expression, body ...Statement) *ForStatement {
	return NewForStatement(ID(name), iterable, Block(body...))
}

func Fn(name string, params []*Parameter, body ...Statement) *FunctionDecl {
	return NewFunctionDecl(ID(name), params, Block(body...))
}

func PipelineFn(name string, params []*Parameter, body ...Statement) *PipelineDecl {
	return NewPipelineDecl(ID(name), params, Block(body...))
}

func Ret(value Expression) *ReturnStatement { return NewReturnStatement(value) }

func Brk() *BreakStatement { return NewBreakStatement() }

func Cont() *ContinueStatement { return NewContinueStatement() }

func Guard(cond, message Expression) *GuardStatement { return NewGuardStatement(cond, message) }

func Use(name string) *UseStatement { return NewUseStatement(ID(name)) }

func Try(body *BlockStatement, rescueName string, rescue, ensure *BlockStatement) *TryExpression {
	var name *Identifier
	if rescueName != "" {
		name = ID(rescueName)
	}
	return NewTryExpression(body, name, rescue, ensure)
}

func Block(statements ...Statement) *BlockStatement { return NewBlockStatement(statements) }

func PWild() *WildcardPattern { return NewWildcardPattern() }

func PLit(value Expression) *LiteralPattern { return NewLiteralPattern(value) }

func PBind(name string) *BindingPattern { return NewBindingPattern(ID(name)) }

func PList(elements ...Pattern) *ListPattern { return NewListPattern(elements, nil) }

func PListRest(rest string, elements ...Pattern) *ListPattern {
	return NewListPattern(elements, ID(rest))
}

func PMap(keys ...string) *MapPattern {
	ids := make([]*Identifier, len(keys))
	for i, k := range keys {
		ids[i] = ID(k)
	}
	return NewMapPattern(ids)
}

func exprFrom(value interface{}) Expression {
	switch v := value.(type) {
	case string:
		return ID(v)
	case Expression:
		return v
	default:
		panic("ast: expected string or Expression")
	}
}

func patternFrom(value interface{}) Pattern {
	switch v := value.(type) {
	case string:
		return PBind(v)
	case Pattern:
		return v
	default:
		panic("ast: expected string or Pattern")
	}
}
