package parser

import (
	"unparen/internal/ast"
	"unparen/internal/precedence"
	"unparen/internal/token"
)

// Приоритеты бинарных операторов берутся из общей таблицы precedence,
// чтобы парсер и анализ скобок не расходились.
// Чем больше число, тем выше приоритет
const (
	precNone           = int(precedence.LevelNone)
	precCoalesce       = int(precedence.LevelCoalesce)       // ?? (правоассоциативно)
	precLogicalOr      = int(precedence.LevelConditionalOr)  // ||
	precLogicalAnd     = int(precedence.LevelConditionalAnd) // &&
	precBitwiseOr      = int(precedence.LevelLogicalOr)      // |
	precBitwiseXor     = int(precedence.LevelLogicalXor)     // ^
	precBitwiseAnd     = int(precedence.LevelLogicalAnd)     // &
	precEquality       = int(precedence.LevelEquality)       // == !=
	precRelational     = int(precedence.LevelRelational)     // < <= > >= is as
	precShift          = int(precedence.LevelShift)          // << >>
	precAdditive       = int(precedence.LevelAdditive)       // + -
	precMultiplicative = int(precedence.LevelMultiplicative) // * / %
)

// binaryOp смотрит на текущий токен и возвращает оператор, его приоритет и
// число токенов, которые он занимает (`>>` лексер отдаёт как два `>`).
func (p *Parser) binaryOp() (op ast.ExprBinaryOp, prec, width int, ok bool) {
	switch p.peek().Kind {
	case token.QuestionQuestion:
		return ast.ExprBinaryCoalesce, precCoalesce, 1, true
	case token.OrOr:
		return ast.ExprBinaryLogicalOr, precLogicalOr, 1, true
	case token.AndAnd:
		return ast.ExprBinaryLogicalAnd, precLogicalAnd, 1, true
	case token.Pipe:
		return ast.ExprBinaryBitOr, precBitwiseOr, 1, true
	case token.Caret:
		return ast.ExprBinaryBitXor, precBitwiseXor, 1, true
	case token.Amp:
		return ast.ExprBinaryBitAnd, precBitwiseAnd, 1, true
	case token.EqEq:
		return ast.ExprBinaryEq, precEquality, 1, true
	case token.BangEq:
		return ast.ExprBinaryNotEq, precEquality, 1, true
	case token.Lt:
		return ast.ExprBinaryLess, precRelational, 1, true
	case token.LtEq:
		return ast.ExprBinaryLessEq, precRelational, 1, true
	case token.Gt:
		if p.adjacent(0) {
			switch p.peekAt(1).Kind {
			case token.Gt:
				return ast.ExprBinaryShiftRight, precShift, 2, true
			case token.GtEq:
				// `>>=` - это присваивание, не наш уровень
				return 0, precNone, 0, false
			}
		}
		return ast.ExprBinaryGreater, precRelational, 1, true
	case token.GtEq:
		return ast.ExprBinaryGreaterEq, precRelational, 1, true
	case token.Shl:
		return ast.ExprBinaryShiftLeft, precShift, 1, true
	case token.Plus:
		return ast.ExprBinaryAdd, precAdditive, 1, true
	case token.Minus:
		return ast.ExprBinarySub, precAdditive, 1, true
	case token.Star:
		return ast.ExprBinaryMul, precMultiplicative, 1, true
	case token.Slash:
		return ast.ExprBinaryDiv, precMultiplicative, 1, true
	case token.Percent:
		return ast.ExprBinaryMod, precMultiplicative, 1, true
	}
	return 0, precNone, 0, false
}

// assignOp распознаёт оператор присваивания; `>>=` склеивается из `>` и `>=`.
func (p *Parser) assignOp() (op ast.ExprBinaryOp, width int, ok bool) {
	switch p.peek().Kind {
	case token.Assign:
		return ast.ExprBinaryAssign, 1, true
	case token.PlusAssign:
		return ast.ExprBinaryAddAssign, 1, true
	case token.MinusAssign:
		return ast.ExprBinarySubAssign, 1, true
	case token.StarAssign:
		return ast.ExprBinaryMulAssign, 1, true
	case token.SlashAssign:
		return ast.ExprBinaryDivAssign, 1, true
	case token.PercentAssign:
		return ast.ExprBinaryModAssign, 1, true
	case token.AmpAssign:
		return ast.ExprBinaryBitAndAssign, 1, true
	case token.PipeAssign:
		return ast.ExprBinaryBitOrAssign, 1, true
	case token.CaretAssign:
		return ast.ExprBinaryBitXorAssign, 1, true
	case token.ShlAssign:
		return ast.ExprBinaryShlAssign, 1, true
	case token.QuestionAssign:
		return ast.ExprBinaryCoalesceAssign, 1, true
	case token.Gt:
		if p.adjacent(0) && p.peekAt(1).Kind == token.GtEq {
			return ast.ExprBinaryShrAssign, 2, true
		}
	}
	return 0, 0, false
}

// prefixOp возвращает префиксный унарный оператор для текущего токена.
func prefixOp(k token.Kind) (ast.ExprUnaryOp, bool) {
	switch k {
	case token.Plus:
		return ast.ExprUnaryPlus, true
	case token.Minus:
		return ast.ExprUnaryMinus, true
	case token.Bang:
		return ast.ExprUnaryNot, true
	case token.Tilde:
		return ast.ExprUnaryBitNot, true
	case token.PlusPlus:
		return ast.ExprUnaryPreInc, true
	case token.MinusMinus:
		return ast.ExprUnaryPreDec, true
	case token.Amp:
		return ast.ExprUnaryAddrOf, true
	case token.Star:
		return ast.ExprUnaryDeref, true
	case token.Caret:
		return ast.ExprUnaryIndexFromEnd, true
	}
	return 0, false
}

// relationalPatternOp - операторы, допустимые в relational pattern.
func relationalPatternOp(k token.Kind) (ast.ExprBinaryOp, bool) {
	switch k {
	case token.Lt:
		return ast.ExprBinaryLess, true
	case token.LtEq:
		return ast.ExprBinaryLessEq, true
	case token.Gt:
		return ast.ExprBinaryGreater, true
	case token.GtEq:
		return ast.ExprBinaryGreaterEq, true
	}
	return 0, false
}

func literalKind(k token.Kind) (ast.ExprLitKind, bool) {
	switch k {
	case token.IntLit:
		return ast.ExprLitInt, true
	case token.RealLit:
		return ast.ExprLitReal, true
	case token.CharLit:
		return ast.ExprLitChar, true
	case token.StringLit:
		return ast.ExprLitString, true
	case token.KwTrue:
		return ast.ExprLitTrue, true
	case token.KwFalse:
		return ast.ExprLitFalse, true
	case token.KwNull:
		return ast.ExprLitNull, true
	}
	return 0, false
}
