package htmlprint

// Page scripts evaluated through Tab.Eval. Each is a function taking a
// single JSON argument and always resolving to a JSON object, so
// backends never see a null or undefined result.

// scriptSettle waits for webfonts and every <img> to load or fail,
// raced against arg.timeoutMs. Per-image decode failures are ignored.
const scriptSettle = `async (opts) => {
  const fonts = (async () => {
    if (document.fonts && document.fonts.ready) await document.fonts.ready;
  })();
  const images = Promise.all(Array.from(document.images || []).map(async (img) => {
    try {
      if (!img.complete) {
        await new Promise((resolve) => {
          img.addEventListener("load", resolve, { once: true });
          img.addEventListener("error", resolve, { once: true });
        });
      }
      if (img.decode) await img.decode().catch(() => {});
    } catch (_) {}
  }));
  let timedOut = false;
  let timer;
  const deadline = new Promise((resolve) => {
    timer = setTimeout(() => { timedOut = true; resolve(); }, opts.timeoutMs);
  });
  await Promise.race([Promise.all([fonts, images]), deadline]);
  clearTimeout(timer);
  return { timedOut: timedOut, images: (document.images || []).length };
}`

// scriptMeasureAll returns the document-coordinate boxes of every
// element matching arg, in DOM order.
const scriptMeasureAll = `(selector) => {
  const rects = Array.from(document.querySelectorAll(selector)).map((el) => {
    const r = el.getBoundingClientRect();
    return {
      x: r.left + window.scrollX,
      y: r.top + window.scrollY,
      width: r.width,
      height: r.height,
    };
  });
  return { rects: rects };
}`

// scriptLogoBox measures arg.placeholder relative to arg.container.
const scriptLogoBox = `(slot) => {
  const container = document.querySelector(slot.container);
  const holder = document.querySelector(slot.placeholder);
  if (!container || !holder) return { found: false };
  const c = container.getBoundingClientRect();
  const h = holder.getBoundingClientRect();
  return {
    found: true,
    box: {
      x: h.left - c.left,
      y: h.top - c.top,
      width: h.width,
      height: h.height,
      containerHeight: c.height,
    },
  };
}`

// scriptImageSrc returns the raw src attribute of the first image
// matching arg, or an empty string.
const scriptImageSrc = `(selector) => {
  const img = document.querySelector(selector);
  return { src: img ? (img.getAttribute("src") || "") : "" };
}`

// scriptRemoveImages removes every element matching arg.
const scriptRemoveImages = `(selector) => {
  const nodes = document.querySelectorAll(selector);
  nodes.forEach((n) => n.remove());
  return { removed: nodes.length };
}`

// scriptInlineSVG replaces the images inside arg.placeholder with the
// SVG markup in arg.markup, sized to fill the placeholder.
const scriptInlineSVG = `(opts) => {
  const wrap = document.querySelector(opts.placeholder);
  if (!wrap) return { inlined: false };
  wrap.querySelectorAll("img").forEach((n) => n.remove());
  wrap.insertAdjacentHTML("beforeend", opts.markup);
  const svg = wrap.querySelector("svg");
  if (svg) {
    svg.removeAttribute("width");
    svg.removeAttribute("height");
    svg.style.width = "100%";
    svg.style.height = "100%";
    svg.style.display = "block";
    if (!svg.getAttribute("preserveAspectRatio")) {
      svg.setAttribute("preserveAspectRatio", "xMidYMid meet");
    }
  }
  return { inlined: !!svg };
}`

// scriptInlineDataURI points every <img> whose src mentions arg.name at
// the data URI arg.uri.
const scriptInlineDataURI = `(opts) => {
  let replaced = 0;
  for (const img of document.querySelectorAll("img")) {
    const src = img.getAttribute("src");
    if (src && src.includes(opts.name)) {
      img.setAttribute("src", opts.uri);
      replaced++;
    }
  }
  return { replaced: replaced };
}`

// scriptAddStyle appends a <style> element holding arg to <head>.
const scriptAddStyle = `(css) => {
  const style = document.createElement("style");
  style.textContent = css;
  (document.head || document.documentElement).appendChild(style);
  return { ok: true };
}`
