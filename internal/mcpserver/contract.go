package mcpserver

// ContentFormatContract describes the line-based markup that post bodies use.
// LLM consumers drafting content through the editor should follow it.
const ContentFormatContract = `# Conexão Post Content Format

Post bodies use a small line-based markup. Each line is classified on its own.

## Blocks

` + "```" + `
# Heading          -> <h2> (## -> <h3>, ### -> <h4>; four or more # is plain text)
- item / * item    -> unordered list
1. item            -> ordered list
anything else      -> paragraph
` + "```" + `

A blank line closes an open list. Consecutive items of the same kind merge
into one list; switching kind starts a new list.

## Inline markup

- ` + "`" + `**bold**` + "`" + ` -> <strong>
- ` + "`" + `*italic*` + "`" + ` -> <em>
- ` + "`" + `[label](https://example.com)` + "`" + ` -> link (http/https only; other
  schemes stay plain text)
- ` + "`" + `[label]` + "`" + ` without a URL -> <strong>

Raw HTML is escaped, never interpreted.

## Rules

1. Timestamps are ISO-8601 strings in UTC.
2. Slugs are lowercase ASCII with hyphens; accents are stripped
   ("Manutenção" -> "manutencao"). Leave the slug empty to derive it from
   the title.
3. Summaries left empty are derived from the body text.
4. Tags and categories are plain strings; filtering matches them exactly.
5. Post text is pt-BR; an empty body renders as a placeholder paragraph.

## Example

` + "```" + `
# Diagnóstico rápido

Antes de abrir o motor, verifique o básico:

- Nível de **óleo**
- Filtro de combustível
- [Manual do fabricante](https://example.com/manual)

1. Desligue a alimentação
2. Meça a compressão
` + "```" + `
`
