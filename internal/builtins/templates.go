package builtins

// Raw template sources for the built-in capsules. Placeholder grammar is
// {{prop.<name>}}, {{theme.<group>.<name>}}, {{slot.<name>}}, and
// {{component.name}}; every template here parses at registration.
//
// Templates reference the standard theme tokens (colors.primary,
// colors.surface, colors.text, colors.background, spacing.sm, spacing.md,
// radius.md) that capsule.DefaultTheme guarantees.

const buttonWeb = `import React from "react";

const baseStyle = {
  padding: "{{theme.spacing.sm}}px {{theme.spacing.md}}px",
  borderRadius: "{{theme.radius.md}}px",
  border: "none",
  cursor: "pointer",
  background: "{{theme.colors.primary}}",
  color: "#ffffff",
};

export default function {{component.name}}(props) {
  const variant = props.variant ?? {{prop.variant}};
  const onPress = props.onPress ?? {{prop.onPress}};
  return (
    <button
      style={baseStyle}
      data-variant={variant}
      disabled={props.disabled ?? {{prop.disabled}}}
      onClick={onPress}
    >
      { props.label ?? {{prop.label}} }
    </button>
  );
}
`

const buttonIOS = `import SwiftUI

struct {{component.name}}: View {
    var label: String = {{prop.label}}
    var disabled: Bool = {{prop.disabled}}
    // variant: {{prop.variant}}

    var body: some View {
        Button(action: {{prop.onPress}}) {
            Text(label)
                .padding(.horizontal, CGFloat({{theme.spacing.md}}))
                .padding(.vertical, CGFloat({{theme.spacing.sm}}))
        }
        .background(Color(hex: "{{theme.colors.primary}}"))
        .cornerRadius(CGFloat({{theme.radius.md}}))
        .disabled(disabled)
    }
}
`

const buttonAndroid = `import androidx.compose.material3.Button
import androidx.compose.material3.Text
import androidx.compose.runtime.Composable

@Composable
fun {{component.name}}(
    label: String = {{prop.label}},
    enabled: Boolean = !{{prop.disabled}},
    onPress: () -> Unit = {{prop.onPress}},
) {
    Button(onClick = onPress, enabled = enabled) {
        Text(label)
    }
}
`

const textInputWeb = `import React from "react";

const inputStyle = {
  padding: "{{theme.spacing.sm}}px",
  borderRadius: "{{theme.radius.md}}px",
  border: "1px solid {{theme.colors.surface}}",
  color: "{{theme.colors.text}}",
};

export default function {{component.name}}(props) {
  const onChange = props.onChange ?? {{prop.onChange}};
  return (
    <input
      style={inputStyle}
      type={ {{prop.secure}} ? "password" : "text" }
      placeholder={props.placeholder ?? {{prop.placeholder}}}
      onChange={onChange}
    />
  );
}
`

const textInputIOS = `import SwiftUI

struct {{component.name}}: View {
    @State private var value = ""
    var placeholder: String = {{prop.placeholder}}

    var body: some View {
        Group {
            if {{prop.secure}} {
                SecureField(placeholder, text: $value)
            } else {
                TextField(placeholder, text: $value)
            }
        }
        .padding(CGFloat({{theme.spacing.sm}}))
    }
}
`

const textInputAndroid = `import androidx.compose.material3.OutlinedTextField
import androidx.compose.material3.Text
import androidx.compose.runtime.Composable
import androidx.compose.runtime.mutableStateOf
import androidx.compose.runtime.remember

@Composable
fun {{component.name}}(placeholder: String = {{prop.placeholder}}) {
    val value = remember { mutableStateOf("") }
    OutlinedTextField(
        value = value.value,
        onValueChange = { value.value = it },
        placeholder = { Text(placeholder) },
    )
}
`

const cardWeb = `import React from "react";

const cardStyle = {
  background: "{{theme.colors.surface}}",
  borderRadius: "{{theme.radius.md}}px",
  padding: "{{theme.spacing.md}}px",
};

export default function {{component.name}}(props) {
  return (
    <section style={cardStyle} data-elevation={props.elevation ?? {{prop.elevation}}}>
      <h3>{ props.title ?? {{prop.title}} }</h3>
{{slot.children}}
      { props.children }
    </section>
  );
}
`

const cardIOS = `import SwiftUI

struct {{component.name}}<Content: View>: View {
    var title: String = {{prop.title}}
    @ViewBuilder var content: () -> Content

    var body: some View {
        VStack(alignment: .leading) {
            Text(title).font(.headline)
            content()
        }
        .padding(CGFloat({{theme.spacing.md}}))
        .background(Color(hex: "{{theme.colors.surface}}"))
        .cornerRadius(CGFloat({{theme.radius.md}}))
    }
}
`

const cardAndroid = `import androidx.compose.foundation.layout.Column
import androidx.compose.material3.Card
import androidx.compose.material3.Text
import androidx.compose.runtime.Composable

@Composable
fun {{component.name}}(
    title: String = {{prop.title}},
    content: @Composable () -> Unit = {},
) {
    Card {
        Column {
            Text(title)
            content()
        }
    }
}
`

const navBarWeb = `import React from "react";

const barStyle = {
  display: "flex",
  gap: "{{theme.spacing.md}}px",
  padding: "{{theme.spacing.sm}}px {{theme.spacing.md}}px",
  background: "{{theme.colors.primary}}",
  color: "#ffffff",
};

export default function {{component.name}}(props) {
  const links = props.links ?? {{prop.links}};
  return (
    <nav style={barStyle}>
      <strong>{ props.title ?? {{prop.title}} }</strong>
      {links.map((link) => (
        <a key={link} href="#">{link}</a>
      ))}
    </nav>
  );
}
`

const navBarIOS = `import SwiftUI

struct {{component.name}}: View {
    var title: String = {{prop.title}}
    var links: [String] = {{prop.links}}

    var body: some View {
        HStack(spacing: CGFloat({{theme.spacing.md}})) {
            Text(title).bold()
            ForEach(links, id: \.self) { link in
                Text(link)
            }
        }
        .padding(CGFloat({{theme.spacing.sm}}))
        .background(Color(hex: "{{theme.colors.primary}}"))
    }
}
`

const navBarAndroid = `import androidx.compose.foundation.layout.Row
import androidx.compose.material3.Text
import androidx.compose.runtime.Composable

@Composable
fun {{component.name}}(
    title: String = {{prop.title}},
    links: List<String> = {{prop.links}},
) {
    Row {
        Text(title)
        links.forEach { link -> Text(link) }
    }
}
`

const authScreenWeb = `import React from "react";

const screenStyle = {
  background: "{{theme.colors.background}}",
  padding: "{{theme.spacing.md}}px",
  borderRadius: "{{theme.radius.md}}px",
};

export default function {{component.name}}(props) {
  const mode = props.mode ?? {{prop.mode}};
  const onSubmit = props.onSubmit ?? {{prop.onSubmit}};
  const accent = {{prop.accentColor}};
  return (
    <form style={screenStyle} onSubmit={onSubmit}>
      <h1 style={ { color: accent } }>{ props.heading ?? {{prop.heading}} }</h1>
      <input type="email" placeholder="Email" />
      <input type="password" placeholder="Password" />
      {mode === "signup" && <input type="password" placeholder="Confirm password" />}
      <button type="submit">{mode === "signup" ? "Create account" : "Sign in"}</button>
    </form>
  );
}
`

const authScreenIOS = `import SwiftUI

enum AuthMode {
    case login
    case signup
}

struct {{component.name}}: View {
    var heading: String = {{prop.heading}}
    var mode: AuthMode = {{prop.mode}}
    @State private var email = ""
    @State private var password = ""

    var body: some View {
        VStack(spacing: CGFloat({{theme.spacing.md}})) {
            Text(heading)
                .font(.largeTitle)
                .foregroundColor(Color(hex: {{prop.accentColor}}))
            TextField("Email", text: $email)
            SecureField("Password", text: $password)
            Button(mode == .signup ? "Create account" : "Sign in", action: {{prop.onSubmit}})
        }
        .padding(CGFloat({{theme.spacing.md}}))
        .background(Color(hex: "{{theme.colors.background}}"))
    }
}
`

const authScreenAndroid = `import androidx.compose.foundation.layout.Column
import androidx.compose.material3.Button
import androidx.compose.material3.OutlinedTextField
import androidx.compose.material3.Text
import androidx.compose.runtime.Composable
import androidx.compose.runtime.mutableStateOf
import androidx.compose.runtime.remember

@Composable
fun {{component.name}}(
    heading: String = {{prop.heading}},
    mode: String = {{prop.mode}},
    onSubmit: () -> Unit = {{prop.onSubmit}},
) {
    val email = remember { mutableStateOf("") }
    val password = remember { mutableStateOf("") }
    Column {
        Text(heading)
        OutlinedTextField(value = email.value, onValueChange = { email.value = it })
        OutlinedTextField(value = password.value, onValueChange = { password.value = it })
        Button(onClick = onSubmit) {
            Text(if (mode == "signup") "Create account" else "Sign in")
        }
    }
}
`

const dataTableWeb = `import React from "react";

const headerStyle = {
  background: "{{theme.colors.surface}}",
  color: "{{theme.colors.text}}",
};

export default function {{component.name}}(props) {
  const columns = props.columns ?? {{prop.columns}};
  const rows = props.rows ?? [];
  return (
    <table data-striped={props.striped ?? {{prop.striped}}} data-page-size={props.pageSize ?? {{prop.pageSize}}}>
      <thead style={headerStyle}>
        <tr>
          {columns.map((col) => (
            <th key={col}>{col}</th>
          ))}
        </tr>
      </thead>
      <tbody>
        {rows.map((row, i) => (
          <tr key={i}>
            {columns.map((col) => (
              <td key={col}>{row[col]}</td>
            ))}
          </tr>
        ))}
      </tbody>
    </table>
  );
}
`

const dataTableIOS = `import SwiftUI

struct {{component.name}}: View {
    var columns: [String] = {{prop.columns}}
    // pageSize: {{prop.pageSize}}

    var body: some View {
        VStack(alignment: .leading) {
            HStack {
                ForEach(columns, id: \.self) { column in
                    Text(column).bold()
                }
            }
            .padding(CGFloat({{theme.spacing.sm}}))
            .background(Color(hex: "{{theme.colors.surface}}"))
        }
    }
}
`

const dataTableAndroid = `import androidx.compose.foundation.layout.Column
import androidx.compose.foundation.layout.Row
import androidx.compose.material3.Text
import androidx.compose.runtime.Composable

@Composable
fun {{component.name}}(
    columns: List<String> = {{prop.columns}},
    striped: Boolean = {{prop.striped}},
) {
    Column {
        Row {
            columns.forEach { column -> Text(column) }
        }
    }
}
`

const chartWeb = `import React from "react";

export default function {{component.name}}(props) {
  const kind = props.kind ?? {{prop.kind}};
  const series = props.series ?? {{prop.series}};
  return (
    <figure data-kind={kind} style={ { color: "{{theme.colors.primary}}" } }>
      {series.map((value, i) => (
        <span key={i} data-value={value} />
      ))}
    </figure>
  );
}
`

const chartAndroid = `import androidx.compose.foundation.layout.Row
import androidx.compose.material3.Text
import androidx.compose.runtime.Composable

@Composable
fun {{component.name}}(
    kind: String = {{prop.kind}},
    series: List<Double> = {{prop.series}},
) {
    Row {
        series.forEach { value -> Text(value.toString()) }
    }
}
`
