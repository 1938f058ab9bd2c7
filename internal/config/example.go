package config

const exampleChapter = `^title Strings
^part A Tiny Interpreter

Our interpreter can represent numbers -- but not text. Time to fix that.

## Objects

Every heap-allocated value shares a common header.

^code 1

### Object Types

^code 2 (1 before)

## Concatenation

Strings are joined with ` + "`+`" + `.

^code 3

## Challenges

1. Intern every string.

## Design Note: String Encoding

Choosing an encoding is harder than it looks.
`

const exampleManifest = `chapter: Strings
sections:
  - number: 1
    path: src/object.h
    location: create new file
    added: |
      typedef struct Obj Obj;
      typedef struct ObjString ObjString;
  - number: 2
    path: src/object.h
    location: below typedefs
    context_before: |
      typedef struct ObjString ObjString;
    added: |
      typedef enum {
        OBJ_STRING,
      } ObjType;
  - number: 3
    path: src/vm.c
    location: in run()
    removed: |
      case OP_ADD: BINARY_OP(NUMBER_VAL, +); break;
    added: |
      case OP_ADD: {
        if (IS_STRING(peek(0)) && IS_STRING(peek(1))) {
          concatenate();
        }
        break;
      }
`

var defaultTemplates = map[string]string{
	"page.html": `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Title }} &middot; {{ .BookTitle }}</title>
<link rel="stylesheet" href="style.css">
</head>
<body>
<nav class="adjacent">
{{ if .Prev }}<a href="{{ file .Prev }}">&larr; {{ .Prev }}</a>{{ end }}
<a href="contents.html">Contents</a>
{{ if .Next }}<a href="{{ file .Next }}">{{ .Next }} &rarr;</a>{{ end }}
</nav>
<article class="chapter">
<h1>{{ if .Number }}<small>{{ .Number }}</small> {{ end }}{{ .TitleHTML }}</h1>
{{ if .Part }}<p class="part">{{ .Part }}</p>{{ end }}
{{ if .Sections }}<ol class="sections">
{{ range .Sections }}<li><a href="#{{ .Anchor }}">{{ .Text }}</a></li>
{{ end }}{{ if .HasChallenges }}<li><a href="#challenges">Challenges</a></li>
{{ end }}{{ if .DesignNote }}<li><a href="#design-note">Design Note: {{ .DesignNote }}</a></li>
{{ end }}</ol>{{ end }}
{{ .Body }}
</article>
<footer>&copy; {{ .Year }} {{ .BookTitle }}</footer>
</body>
</html>
`,
	"part.html": `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Title }} &middot; {{ .BookTitle }}</title>
<link rel="stylesheet" href="style.css">
</head>
<body>
<article class="part">
<h1><small>{{ .Number }}</small> {{ .TitleHTML }}</h1>
{{ .Body }}
<ol class="chapters">
{{ range .Chapters }}<li><small>{{ .Number }}</small> <a href="{{ file .Name }}">{{ .Name }}</a></li>
{{ end }}</ol>
{{ if .Next }}<a href="{{ file .Next }}">{{ .Next }} &rarr;</a>{{ end }}
</article>
</body>
</html>
`,
	"contents.html": `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Title }} &middot; {{ .BookTitle }}</title>
<link rel="stylesheet" href="style.css">
</head>
<body>
<article class="contents">
<h1>{{ .TitleHTML }}</h1>
{{ range .TOC }}{{ if .Name }}<h2><a href="{{ file .Name }}">{{ .Name }}</a></h2>{{ end }}
<ul>
{{ range .Chapters }}<li><a href="{{ file .Name }}">{{ .Name }}</a></li>
{{ end }}</ul>
{{ end }}
</article>
</body>
</html>
`,
	"index.html": `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .BookTitle }}</title>
<link rel="stylesheet" href="style.css">
</head>
<body>
<header><h1>{{ .TitleHTML }}</h1></header>
{{ .Body }}
{{ if .Next }}<a href="{{ file .Next }}">Start reading &rarr;</a>{{ end }}
</body>
</html>
`,
}
