// Package merge implements the directive-driven schema merge engine.
//
// A merge takes one raw text (base documents followed by decorator documents)
// and produces the merged document. Decorators carry three kinds of
// directives, each written at the start of a line:
//
//	extends model User {
//	  age Int
//	}
//	remove model User {
//	  legacyId
//	}
//	replaces model User {
//	  email String @unique
//	}
//
// The engine never parses the schema language. Blocks are located by text:
//   - [Engine.ApplyExtends] finds the first occurrence of the target text and
//     inserts the directive body before the nearest following "}".
//   - [Engine.ApplyRemoves] and [Engine.ApplyReplaces] index every line with a
//     match token (see [MatchTokens]), find the first header token that starts
//     with the target, then search forward from that header for each field.
//
// The forward field search is not bounded by the target block's closing
// brace. A field missing from the target block matches the next line with the
// same token in any later block. Callers relying on scoped edits must make
// sure the field exists in the intended block.
//
// [Engine.Merge] runs extraction once, then all extends, then all removes,
// then all replaces, and finally prepends the generated header line.
// Every pass is a pure function of its input text.
package merge
